package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis, memory, none)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamepicker_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses by layer
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamepicker_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks swallowed cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamepicker_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "delete_matching", "encode", "decode"
	)

	// InvalidatedKeys tracks keys removed by pattern
	InvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamepicker_cache_invalidated_keys_total",
			Help: "Total number of cache keys removed by pattern invalidation",
		},
	)
)
