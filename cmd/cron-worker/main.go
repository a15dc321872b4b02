package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pharmops-backend/internal/cron"
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

const lockKeyFormat = "pharmops:cron-worker:lock:%s"

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if !cfg.Telegram.Enabled() {
		logg.Error(context.Background(), "telegram is required for the digest", errors.New("PHARMOPS_TELEGRAM_BOT_TOKEN and PHARMOPS_TELEGRAM_CHAT_ID must be set"))
		os.Exit(1)
	}

	loc, err := cfg.Notifications.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid notifications timezone", err)
		os.Exit(1)
	}
	locale, err := enums.ParseLocale(cfg.Notifications.Locale)
	if err != nil {
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

	params := cron.DigestJobParams{Logger: logg, Chats: cfg.Telegram.DigestChats(), Locale: locale, Location: loc}
	var lock cron.Lock
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		redisLock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
		lock = redisLock
		params.Marker = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, digest runs are not coordinated across workers")
	}

	bot, err := telegram.New(context.Background(), cfg.Telegram, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap telegram bot", err)
		os.Exit(1)
	}
	params.Sender = bot

	analytics, err := replenishment.NewService(replenishment.ServiceParams{
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
	params.Analytics = analytics

	digest, err := cron.NewDigestJob(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create digest job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(digest),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"interval":    cfg.Cron.Interval.String(),
	})

	if *once {
		logg.Info(ctx, "running single cron cycle")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
