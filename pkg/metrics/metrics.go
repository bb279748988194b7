// Package metrics provides the centralized Prometheus registry for the
// top-sellers fetcher. All metrics are defined in their respective packages
// (client, cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the fetcher.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - store_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - store_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - store_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Cache Metrics (pkg/cache):
//   - store_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - store_cache_misses_total (Counter): Cache misses
//   - store_cache_size_bytes{layer="redis"} (Gauge): Bytes stored in the cache
//   - store_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(store_cache_hits_total[5m])) /
//   (sum(rate(store_cache_hits_total[5m])) + sum(rate(store_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(store_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(store_request_duration_seconds_bucket[5m]))
