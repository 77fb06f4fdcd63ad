package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// routerMetrics contains Prometheus metrics for pattern compilation and
// path resolution.
type routerMetrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	resolveTotal   prometheus.Counter
	resolveMatches prometheus.Counter
	resolveMisses  prometheus.Counter
}

var (
	routerMetricsInstance *routerMetrics
	routerMetricsOnce     sync.Once
)

// getRouterMetrics returns the singleton router metrics instance.
func getRouterMetrics() *routerMetrics {
	routerMetricsOnce.Do(func() {
		routerMetricsInstance = &routerMetrics{
			cacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "pattern_cache_hits_total",
					Help:      "Total number of pattern cache hits",
				},
			),
			cacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "pattern_cache_misses_total",
					Help:      "Total number of pattern cache misses",
				},
			),
			cacheEvictions: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "pattern_cache_evictions_total",
					Help:      "Total number of pattern cache evictions",
				},
			),
			cacheSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "pattern_cache_size",
					Help:      "Current number of entries in the pattern cache",
				},
			),
			resolveTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "resolve_total",
					Help:      "Total number of path resolutions attempted",
				},
			),
			resolveMatches: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "resolve_matches_total",
					Help:      "Total number of resolutions that matched a route",
				},
			),
			resolveMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routemux",
					Subsystem: "router",
					Name:      "resolve_misses_total",
					Help:      "Total number of resolutions that matched no route",
				},
			),
		}
	})
	return routerMetricsInstance
}
