package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for the HTTP layer.
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamepicker_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamepicker_http_request_duration_seconds",
		Help:    "HTTP handler duration in seconds by route and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// requestLogger returns logger annotated with the chi request id.
func requestLogger(r *http.Request, logger zerolog.Logger) zerolog.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return logger.With().Str("request_id", id).Logger()
	}
	return logger
}

// accessLog logs and measures every request once the handler returns.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

			reqLogger := requestLogger(r, logger)
			event := reqLogger.Debug()
			if status >= 500 {
				event = reqLogger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Msg("HTTP request")
		})
	}
}
