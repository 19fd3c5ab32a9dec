package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document cache Prometheus metrics.
var (
	DocumentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "document_cache_total",
			Help:      "Document cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var cacheMetricsRegistered bool

// RegisterCacheMetrics registers Prometheus cache metrics. Must be called once from main.
func RegisterCacheMetrics() {
	if cacheMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentCacheTotal)
	cacheMetricsRegistered = true
}
