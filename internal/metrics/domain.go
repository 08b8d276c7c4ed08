package metrics

import "github.com/prometheus/client_golang/prometheus"

// Warehouse, cache and asset Prometheus metrics.
var (
	WarehouseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "horrordb",
			Name:      "warehouse_query_duration_seconds",
			Help:      "SQL warehouse query duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	WarehouseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horrordb",
			Name:      "warehouse_queries_total",
			Help:      "Total number of SQL warehouse queries",
		},
		[]string{"status"}, // "ok" / "error" / "timeout"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horrordb",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	HeaderImageReadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "horrordb",
			Name:      "header_image_disk_reads_total",
			Help:      "Header image reads that went to disk",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the warehouse, cache and asset metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(WarehouseQueryDuration)
	prometheus.MustRegister(WarehouseQueriesTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(HeaderImageReadsTotal)
	domainMetricsRegistered = true
}
