// Package app wires the storefront's dependencies and runs the server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/daduke1/practica-ecommerce/internal/cartstore"
	"github.com/daduke1/practica-ecommerce/internal/catalog"
	"github.com/daduke1/practica-ecommerce/internal/config"
	"github.com/daduke1/practica-ecommerce/internal/handler"
	"github.com/daduke1/practica-ecommerce/internal/service"
	"github.com/daduke1/practica-ecommerce/internal/storage"
	filestore "github.com/daduke1/practica-ecommerce/internal/storage/file"
	"github.com/daduke1/practica-ecommerce/internal/storage/memory"
	redisstore "github.com/daduke1/practica-ecommerce/internal/storage/redis"
	"github.com/daduke1/practica-ecommerce/pkg/health"
	"github.com/daduke1/practica-ecommerce/pkg/httpclient"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *goredis.Client
	httpServer *http.Server
}

// NewApp creates the application, connecting the configured storage backend
// and restoring the persisted cart.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthHandler := health.NewHandler()

	var rdb *goredis.Client
	var kv storage.KV
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		kv = redisstore.New(rdb)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

	case config.BackendFile:
		fs, err := filestore.Open(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open storage file: %w", err)
		}
		logger.Info("cart storage file opened", slog.String("path", cfg.StoragePath))
		kv = fs

	default:
		kv = memory.New()
		logger.Warn("using in-memory cart storage, the cart will not survive restarts")
	}

	// Restore the cart before serving any requests.
	store := cartstore.New(kv, logger)
	cart, err := service.NewCartController(ctx, store, logger)
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}

	// Catalog client behind retry and a circuit breaker.
	hc := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	catalogClient := catalog.NewClient(cfg.CatalogAPIURL, cb, logger)

	if cfg.CatalogSeed {
		products := catalogClient.Sync(ctx, catalog.DefaultPlants())
		logger.Info("catalog synchronized", slog.Int("products", len(products)))
	}

	router := handler.NewRouter(handler.RouterConfig{
		Logger:      logger,
		Health:      healthHandler,
		Cart:        handler.NewCartHandler(cart, logger),
		Catalog:     handler.NewCatalogHandler(catalogClient, logger),
		Environment: cfg.Environment,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
