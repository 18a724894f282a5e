package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/carrierdesk/carrierdesk/internal/app"
	"github.com/carrierdesk/carrierdesk/internal/invoices"
	"github.com/carrierdesk/carrierdesk/internal/notify"
	"github.com/carrierdesk/carrierdesk/internal/platform/cache"
	"github.com/carrierdesk/carrierdesk/internal/platform/db"
	"github.com/carrierdesk/carrierdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var notifyCache notify.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, using in-process caches", slog.Any("error", err))
		notifyCache = notify.NewMemoryCache()
	} else {
		notifyCache = notify.NewRedisCache(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	targeting := notify.NewTargeting(logger, notify.NewRepository(pool), notifyCache, cfg.NotifyTTL)
	notifyService := notify.NewService(logger, jobsClient, targeting)

	overdueScan := jobs.NewOverdueScanHandler(logger, invoices.NewRepository(pool), jobsClient)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDriverInvoiceNotify, Handler: notifyService.HandleDriverInvoiceNotify},
			{Type: jobs.TaskInvoiceOverdueScan, Handler: overdueScan.Handle},
			{Type: jobs.TaskInvoiceOverdueNotify, Handler: notifyService.HandleInvoiceOverdueNotify},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: jobs.NewInvoiceOverdueScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
