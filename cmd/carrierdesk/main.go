package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/carrierdesk/carrierdesk/internal/app"
	"github.com/carrierdesk/carrierdesk/internal/assignments"
	"github.com/carrierdesk/carrierdesk/internal/auth"
	"github.com/carrierdesk/carrierdesk/internal/customers"
	"github.com/carrierdesk/carrierdesk/internal/driverpay"
	"github.com/carrierdesk/carrierdesk/internal/drivers"
	"github.com/carrierdesk/carrierdesk/internal/expenses"
	"github.com/carrierdesk/carrierdesk/internal/invoices"
	"github.com/carrierdesk/carrierdesk/internal/loads"
	"github.com/carrierdesk/carrierdesk/internal/notify"
	"github.com/carrierdesk/carrierdesk/internal/platform/cache"
	"github.com/carrierdesk/carrierdesk/internal/platform/db"
	"github.com/carrierdesk/carrierdesk/internal/shared"
	"github.com/carrierdesk/carrierdesk/internal/stats"
	"github.com/carrierdesk/carrierdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The recipient cache falls back to an in-process map when Redis is
	// down at startup; everything else keeps the client and degrades per
	// call.
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

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authMiddleware := auth.NewMiddleware(authService, logger)

	auditLogger := shared.NewAuditLogger(dbpool)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	driversRepo := drivers.NewRepository(dbpool)
	driversService := drivers.NewService(driversRepo)
	driversHandler := drivers.NewHandler(logger, driversService)

	loadsRepo := loads.NewRepository(dbpool)
	loadsService := loads.NewService(loadsRepo)
	loadsHandler := loads.NewHandler(logger, loadsService)

	assignmentsRepo := assignments.NewRepository(dbpool)
	assignmentsService := assignments.NewService(assignmentsRepo, driversService)
	assignmentsHandler := assignments.NewHandler(logger, assignmentsService)

	invoicesRepo := invoices.NewRepository(dbpool)
	invoicesCache := cache.NewVersioned(redisClient, "invoices", cfg.StatsTTL)
	invoicesService := invoices.NewService(invoicesRepo, loadsService, invoicesCache)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	targeting := notify.NewTargeting(logger, notify.NewRepository(dbpool), notifyCache, cfg.NotifyTTL)
	notifyService := notify.NewService(logger, jobsClient, targeting)

	driverpayRepo := driverpay.NewRepository(dbpool)
	driverpayService := driverpay.NewService(logger, driverpayRepo, assignmentsService, driversService, notifyService)
	driverpayHandler := driverpay.NewHandler(logger, driverpayService)

	expensesRepo := expenses.NewRepository(dbpool)
	expensesService := expenses.NewService(logger, expensesRepo, auditLogger)
	expensesHandler := expenses.NewHandler(logger, expensesService)

	statsRepo := stats.NewRepository(dbpool)
	statsCache := cache.NewVersioned(redisClient, "stats", cfg.StatsTTL)
	statsService := stats.NewService(statsRepo, invoicesService, driverpayService, statsCache)
	statsHandler := stats.NewHandler(logger, statsService)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,

		Auth: authMiddleware,

		CustomersHandler:   customersHandler,
		LoadsHandler:       loadsHandler,
		DriversHandler:     driversHandler,
		AssignmentsHandler: assignmentsHandler,
		InvoicesHandler:    invoicesHandler,
		DriverPayHandler:   driverpayHandler,
		ExpensesHandler:    expensesHandler,
		StatsHandler:       statsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppRequestTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
