package web

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions toggles the optional middleware of NewChiRouter.
type RouterOptions struct {
	// CORS enables cross-origin handling when non-nil.
	CORS *cors.Options
	// Metrics records request metrics and serves them on /metrics.
	Metrics bool
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
func NewChiRouter(logger *slog.Logger, opts RouterOptions) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(StructuredLogger(logger))
	mux.Use(Recoverer(logger))
	if opts.CORS != nil {
		mux.Use(cors.Handler(*opts.CORS))
	}
	if opts.Metrics {
		mux.Use(Metrics)
		mux.Method("GET", "/metrics", MetricsHandler())
	}
	return mux
}
