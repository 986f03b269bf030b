package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for engine operations.
var (
	recommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamepicker_recommendations_total",
		Help: "Total pick requests by outcome (cached, picked, not_found, external_failure, canceled, error)",
	}, []string{"outcome"})

	candidatesScanned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamepicker_candidates_scanned",
		Help:    "Number of candidate details inspected per uncached pick",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})

	historyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamepicker_history_requests_total",
		Help: "Total history requests by outcome (cached, queried, error)",
	}, []string{"outcome"})
)
