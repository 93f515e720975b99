package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/storetrack/storetrack/internal/app"
	"github.com/storetrack/storetrack/internal/masterdata"
	"github.com/storetrack/storetrack/internal/masterdata/branches"
	"github.com/storetrack/storetrack/internal/masterdata/brands"
	"github.com/storetrack/storetrack/internal/masterdata/categories"
	"github.com/storetrack/storetrack/internal/masterdata/products"
	"github.com/storetrack/storetrack/internal/masterdata/suppliers"
	"github.com/storetrack/storetrack/internal/platform/cache"
	"github.com/storetrack/storetrack/internal/platform/db"
	"github.com/storetrack/storetrack/internal/removal"
	"github.com/storetrack/storetrack/internal/reports"
	"github.com/storetrack/storetrack/internal/shared"
	"github.com/storetrack/storetrack/internal/stock"
	"github.com/storetrack/storetrack/internal/transactions"
	"github.com/storetrack/storetrack/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reports degrade to uncached loads without redis.
		logger.Warn("redis unavailable", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	reportsRepo := reports.NewRepository(dbpool)
	reportsService := reports.NewService(reportsRepo, reportCache)
	reportsHandler := reports.NewHandler(logger, reportsService)

	stockRepo := stock.NewRepository(dbpool)
	stockService := stock.NewService(stockRepo)

	suppliersService := suppliers.NewService(suppliers.NewRepository(dbpool))
	categoriesService := categories.NewService(categories.NewRepository(dbpool))
	brandsService := brands.NewService(brands.NewRepository(dbpool))
	branchesService := branches.NewService(branches.NewRepository(dbpool))
	productsService := products.NewService(products.NewRepository(dbpool))

	masterdataHandlers := masterdata.Handlers{
		Suppliers:  suppliers.NewHandler(logger, suppliersService),
		Categories: categories.NewHandler(logger, categoriesService),
		Brands:     brands.NewHandler(logger, brandsService),
		Branches:   branches.NewHandler(logger, branchesService),
		Products:   products.NewHandler(logger, productsService, stockService),
	}

	transactionsRepo := transactions.NewRepository(dbpool)
	transactionsService := transactions.NewService(logger, transactionsRepo, reportCache, auditLogger)
	transactionsHandler := transactions.NewHandler(logger, transactionsService)

	removalRepo := removal.NewRepository(dbpool)
	removalService := removal.NewService(logger, removalRepo,
		removal.ServiceConfig{AllowShortfall: cfg.RemovalAllowShortfall},
		reportCache, auditLogger)
	removalHandler := removal.NewHandler(logger, removalService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Masterdata:   masterdataHandlers,
		Transactions: transactionsHandler,
		Removal:      removalHandler,
		Reports:      reportsHandler,
		Jobs:         jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
