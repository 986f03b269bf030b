package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for catalog client operations.
var (
	catalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamepicker_catalog_requests_total",
		Help: "Total catalog requests by endpoint and status",
	}, []string{"endpoint", "status"})

	catalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamepicker_catalog_request_duration_seconds",
		Help:    "Catalog request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	catalogErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamepicker_catalog_errors_total",
		Help: "Total catalog errors by class",
	}, []string{"class"})

	catalogBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gamepicker_catalog_breaker_state",
		Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})
)
