package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_hits_total",
			Help: "Total number of storefront cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_cache_misses_total",
			Help: "Total number of storefront cache misses",
		},
	)

	// CacheSize tracks bytes written to the cache by layer
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_cache_size_bytes",
			Help: "Bytes stored in the storefront cache",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheErrors tracks cache operation errors by operation
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_errors_total",
			Help: "Total number of storefront cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
