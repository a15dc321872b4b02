package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pharmops-backend/api/controllers"
	analyticscontrollers "github.com/angelmondragon/pharmops-backend/api/controllers/analytics"
	purchasecontrollers "github.com/angelmondragon/pharmops-backend/api/controllers/purchases"
	webhookcontrollers "github.com/angelmondragon/pharmops-backend/api/controllers/webhooks"
	"github.com/angelmondragon/pharmops-backend/api/middleware"
	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/internal/replenishment"
	"github.com/angelmondragon/pharmops-backend/pkg/config"
	"github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/redis"
)

// NewRouter wires the HTTP surface. redisClient may be nil, which disables
// idempotent replay and drops Redis from the readiness probe.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	analyticsService replenishment.Service,
	purchaseService purchases.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	var (
		idempotencyStore redis.IdempotencyStore
		redisPinger      controllers.Pinger
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}
	deps := map[string]controllers.Pinger{"db": dbP, "redis": redisPinger}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/products", analyticscontrollers.Products(analyticsService, logg))
			r.Get("/products/{productId}", analyticscontrollers.ProductDetail(analyticsService, logg))
			r.Get("/recommendations", analyticscontrollers.Recommendations(analyticsService, logg))
			r.Get("/low-stock", analyticscontrollers.LowStock(analyticsService, cfg.Analytics.LowStockDays, logg))
		})

		idempotent := middleware.Idempotency(idempotencyStore, cfg.Purchases.Idempotency, logg)
		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", purchasecontrollers.List(purchaseService, logg))
			r.With(idempotent).Post("/", purchasecontrollers.Create(purchaseService, logg))
			r.Get("/{purchaseId}", purchasecontrollers.Get(purchaseService, logg))
			r.With(idempotent).Post("/{purchaseId}/events", purchasecontrollers.ApplyEvent(purchaseService, logg))
		})

		r.Post("/telegram/webhook", webhookcontrollers.TelegramWebhook(purchaseService, cfg.Telegram.WebhookSecret, logg))
	})

	return r
}
