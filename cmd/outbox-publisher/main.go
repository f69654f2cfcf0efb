package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/metrics"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox/registry"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	if err := pubsubClient.Ping(ctx); err != nil {
		logg.Error(ctx, "pubsub ping failed", err)
		os.Exit(1)
	}

	eventRegistry, err := registry.NewEventRegistry(cfg.PubSub)
	if err != nil {
		logg.Error(ctx, "failed to build event registry", err)
		os.Exit(1)
	}

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: outbox.NewRepository(dbClient.DB()),
		Registry:   eventRegistry,
		PublisherFactory: func(topic string) publisher {
			return newGCPPublisher(pubsubClient.Publisher(topic))
		},
		Metrics: metrics.NewJobMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(ctx, "failed to create outbox publisher", err)
		os.Exit(1)
	}

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"poll_interval": cfg.Outbox.PollInterval.String(),
		"batch_size":    cfg.Outbox.BatchSize,
	})
	logg.Info(runCtx, "starting outbox publisher")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}
}
