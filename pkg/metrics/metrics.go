// Package metrics provides the centralized Prometheus metrics registry
// for the gateway. All metrics are defined in their respective packages
// (api, cache, analyzer) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the gateway.
// All metrics are automatically registered via promauto in their
// respective packages and exposed on GET /metrics.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Inbound HTTP Metrics (internal/api):
//   - gateway_http_requests_total{route, status} (Counter): Requests by route and HTTP status
//   - gateway_http_request_duration_seconds{route} (Histogram): Request duration by route
//
// Cache Metrics (pkg/cache):
//   - gateway_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - gateway_cache_misses_total (Counter): Cache misses
//   - gateway_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - gateway_cache_errors_total{operation} (Counter): Cache operation errors
//
// Upstream Metrics (pkg/analyzer):
//   - analyzer_requests_total{endpoint, status} (Counter): Analyzer requests by endpoint and status
//   - analyzer_request_duration_seconds{endpoint} (Histogram): Analyzer request duration
//   - analyzer_errors_total{class} (Counter): Errors by class (network, status, decode)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(gateway_cache_hits_total[5m])) /
//   (sum(rate(gateway_cache_hits_total[5m])) + sum(rate(gateway_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   rate(analyzer_errors_total[5m])
//
//   # P95 Inbound Latency
//   histogram_quantile(0.95, rate(gateway_http_request_duration_seconds_bucket[5m]))
