package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/app"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/observability"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/platform/cache"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/platform/db"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/orders"
	"github.com/Kathiriniyan/SukanFood-sub001/jobs"
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

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	default:
		err = fmt.Errorf("unknown command %q (want serve or migrate)", cmd)
	}
	if err != nil {
		logger.Error(cmd, slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if !cfg.HasDatabase() {
		return fmt.Errorf("PG_DSN is required to run migrations")
	}
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Replicas started together race to migrate; only one runs goose.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	defer func() { _ = redisClient.Close() }()
	if err != nil {
		logger.Warn("redis unavailable, migrating without lock", slog.Any("error", err))
		return runMigrations(ctx, pool, logger)
	}
	err = cache.WithLock(ctx, redisClient, "sukanfood:migrate", 5*time.Minute, func(ctx context.Context) error {
		return runMigrations(ctx, pool, logger)
	})
	if errors.Is(err, cache.ErrLocked) {
		logger.Info("migrations already running elsewhere")
		return nil
	}
	return err
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	checks := map[string]app.Pinger{}
	var closers []func() error
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logger.Warn("release resources", slog.Any("error", errs))
		}
	}()

	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		var err error
		pool, err = db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		checks["postgres"] = pool
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	closers = append(closers, redisClient.Close)
	checks["redis"] = app.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })

	repo, err := loadCatalog(ctx, cfg, pool)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	inspector := asynq.NewInspector(redisOpts)
	closers = append(closers, jobClient.Close, inspector.Close)

	orderService := orders.NewService(
		repo,
		orders.NewRedisStore(redisClient, cfg.DraftTTL),
		jobClient,
		metrics,
		logger,
		orders.ServiceConfig{DefaultTaxLabel: cfg.TaxDefaultLabel},
	)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalog.NewHandler(logger, repo),
		OrdersHandler:  orders.NewHandler(logger, orderService),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
		Checks:         checks,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("catalog", cfg.CatalogSource))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	return nil
}

func loadCatalog(ctx context.Context, cfg *app.Config, pool *pgxpool.Pool) (*catalog.MemoryRepository, error) {
	if cfg.CatalogSource != app.CatalogSourcePostgres {
		return catalog.NewSeededRepository(), nil
	}
	repo, err := catalog.NewPostgresSource(pool).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return repo, nil
}
