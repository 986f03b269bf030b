// Package metrics provides the Prometheus registry handle and scrape
// endpoint for the game picker. Metrics themselves are defined with
// promauto in their own packages (catalog, cache, recommend, httpapi).
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the game picker.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer matching Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Catalog Metrics (pkg/catalog):
//   - gamepicker_catalog_requests_total{endpoint, status} (Counter): Upstream requests by endpoint and HTTP status
//   - gamepicker_catalog_request_duration_seconds{endpoint} (Histogram): Upstream request duration
//   - gamepicker_catalog_errors_total{class} (Counter): Errors by class (client, server, network, decode, breaker_open)
//   - gamepicker_catalog_breaker_state{name} (Gauge): 0=closed, 1=half-open, 2=open
//
// Cache Metrics (pkg/cache):
//   - gamepicker_cache_hits_total{layer} (Counter): Cache hits by backend
//   - gamepicker_cache_misses_total{layer} (Counter): Cache misses by backend
//   - gamepicker_cache_errors_total{operation} (Counter): Swallowed cache errors
//   - gamepicker_cache_invalidated_keys_total (Counter): Keys removed by pattern invalidation
//
// Engine Metrics (pkg/recommend):
//   - gamepicker_recommendations_total{outcome} (Counter): Picks by outcome (cached, picked, not_found, external_failure, canceled, error)
//   - gamepicker_candidates_scanned (Histogram): Candidate details inspected per uncached pick
//   - gamepicker_history_requests_total{outcome} (Counter): History requests (cached, queried, error)
//
// HTTP Metrics (internal/httpapi):
//   - gamepicker_http_requests_total{route, method, status} (Counter): Handled requests
//   - gamepicker_http_request_duration_seconds{route, method} (Histogram): Handler latency
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(gamepicker_cache_hits_total[5m])) /
//   (sum(rate(gamepicker_cache_hits_total[5m])) + sum(rate(gamepicker_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   rate(gamepicker_catalog_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(gamepicker_catalog_request_duration_seconds_bucket[5m]))
//
//   # Breaker Open
//   gamepicker_catalog_breaker_state == 2
