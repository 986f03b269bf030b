// Package httpapi exposes the recommendation engine over HTTP: pick-one,
// history, health and Prometheus metrics, wrapped in a JSON envelope.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/game-picker/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// Config holds router dependencies.
type Config struct {
	// Engine is required.
	Engine Engine

	// RateLimitRPM is the per-IP request budget per minute for API routes.
	// 0 disables rate limiting.
	RateLimitRPM int

	// Ready reports whether backing services are reachable. nil means
	// /ready always answers 200.
	Ready func(ctx context.Context) error

	// Logger receives access and error logs.
	Logger zerolog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg Config) (http.Handler, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.RateLimitRPM < 0 {
		return nil, fmt.Errorf("rate_limit_rpm must be >= 0 (got %d)", cfg.RateLimitRPM)
	}

	logger := cfg.Logger.With().Str("component", "http").Logger()
	h := &handler{engine: cfg.Engine, ready: cfg.Ready, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, Response{Message: "Resource not found", StatusCode: http.StatusNotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Message: "Method not allowed", StatusCode: http.StatusMethodNotAllowed})
	})

	r.Get("/health", h.health)
	r.Get("/ready", h.readiness)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRPM > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimitRPM,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusTooManyRequests, Response{
						Message:    "Too many requests",
						StatusCode: http.StatusTooManyRequests,
					})
				}),
			))
		}

		r.Post("/recommendation", h.pickRecommendation)
		r.Get("/recommendations/history", h.getHistory)
	})

	return r, nil
}
