package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/pharmops-backend/api/routes"
	"github.com/angelmondragon/pharmops-backend/internal/notifications"
	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/internal/replenishment"
	"github.com/angelmondragon/pharmops-backend/pkg/config"
	"github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/metrics"
	"github.com/angelmondragon/pharmops-backend/pkg/migrate"
	"github.com/angelmondragon/pharmops-backend/pkg/redis"
	"github.com/angelmondragon/pharmops-backend/pkg/telegram"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	loc, err := cfg.Notifications.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid notifications timezone", err)
		os.Exit(1)
	}
	locale, err := enums.ParseLocale(cfg.Notifications.Locale)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "locale", cfg.Notifications.Locale), "unknown locale, falling back to ru")
		locale = enums.LocaleRU
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		locker      purchases.Locker = purchases.NewKeyedMutex()
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		locker, err = purchases.NewRedisLocker(redisClient.Raw(), cfg.Purchases.LockTTL, func(id string) string {
			return redisClient.LockKey("purchase", id)
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create purchase locker", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-process purchase locks")
	}

	var messenger notifications.Messenger = notifications.NopMessenger{}
	if cfg.Telegram.Enabled() {
		bot, err := telegram.New(context.Background(), cfg.Telegram, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap telegram bot", err)
			os.Exit(1)
		}
		messenger = bot
	} else {
		logg.Warn(context.Background(), "telegram not configured, purchase notifications disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	purchaseRepo := purchases.NewRepository(dbClient.DB())
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Messenger: messenger,
		Store:     purchaseRepo,
		ChatID:    cfg.Telegram.ChatID,
		Locale:    locale,
		Location:  loc,
		Timeout:   cfg.Notifications.Timeout,
		Logger:    logg,
		Metrics:   metrics.NewNotificationMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Repo:     purchaseRepo,
		Locker:   locker,
		Notifier: dispatcher,
		Answerer: messenger,
		Metrics:  metrics.NewPurchaseMetrics(registry),
		Logger:   logg,
		Locale:   locale,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	analyticsService, err := replenishment.NewService(replenishment.ServiceParams{
		Reader:       replenishment.NewRepository(dbClient.DB()),
		Logger:       logg,
		Locale:       locale,
		Workers:      cfg.Analytics.Workers,
		LowStockDays: cfg.Analytics.LowStockDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"telegram": cfg.Telegram.Enabled(),
		"redis":    redisClient != nil,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, analyticsService, purchaseService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
		return
	case <-sigCtx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logg.Error(ctx, "pending notifications not delivered before shutdown", err)
	}
	logg.Info(ctx, "api server stopped")
}
