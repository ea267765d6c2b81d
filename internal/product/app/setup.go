// Package app contains the application setup for the product service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/platform/bootstrap"
	"github.com/abgdnv/productcatalog/internal/platform/web"
	"github.com/abgdnv/productcatalog/internal/product/handler"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/go-chi/cors"
)

type Dependencies struct {
	ProductService service.ProductService
	APIKey         string
	Logger         *slog.Logger
}

func SetupDependencies(productStore store.ProductStore, apiKey string, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore),
		APIKey:         apiKey,
		Logger:         logger,
	}
}

// SetupStore opens the backend selected by store.driver. The returned close
// function releases it and is never nil.
func SetupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	logger = logger.With("component", "store", "driver", cfg.Store.Driver)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := store.MigratePostgres(cfg.Database.URL); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), dbPool.Close, nil

	case config.DriverSQLite:
		sqliteStore, err := store.OpenSQLite(ctx, cfg.SQLite.Path, store.SeedProducts())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite database opened", "path", cfg.SQLite.Path)
		return sqliteStore, func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Warn("Failed to close SQLite database", "error", err)
			}
		}, nil

	case config.DriverMemory:
		logger.Info("Using in-memory store; data is lost on restart")
		return store.NewInMemoryStore(store.SeedProducts()), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// RouterOptions maps the cors and metrics sections onto router options.
func RouterOptions(cfg *config.Config) web.RouterOptions {
	opts := web.RouterOptions{Metrics: cfg.Metrics.Enabled}
	if cfg.CORS.Enabled {
		opts.CORS = &cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		}
	}
	return opts
}

// SetupHttpHandler builds the router with every product route and middleware.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, opts web.RouterOptions) http.Handler {
	mux := web.NewChiRouter(deps.Logger, opts)
	handler.NewHandler(deps.ProductService, deps.APIKey, deps.Logger).RegisterRoutes(mux)
	return mux
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler:           SetupHttpHandler(deps, RouterOptions(cfg)),
		ReadTimeout:       cfg.HTTPServer.Timeout.Read,
		WriteTimeout:      cfg.HTTPServer.Timeout.Write,
		IdleTimeout:       cfg.HTTPServer.Timeout.Idle,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.HTTPServer.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(deps.Logger.Handler(), slog.LevelError),
	}
}
