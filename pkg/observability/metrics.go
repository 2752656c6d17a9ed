package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// ClickHouseQueries counts total number of ClickHouse queries executed
	ClickHouseQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_clickhouse_queries_total",
			Help: "Total number of ClickHouse queries executed",
		},
		[]string{"query_type", "status"}, // status: success, error
	)

	// ClickHouseQueryDuration measures ClickHouse query execution time
	ClickHouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "injuryboard_clickhouse_query_duration_seconds",
			Help:    "ClickHouse query execution time",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"query_type"},
	)

	// ClickHouseRowsReturned counts total number of rows returned by ClickHouse
	ClickHouseRowsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_clickhouse_rows_returned_total",
			Help: "Total number of rows returned by ClickHouse",
		},
		[]string{"query_type"},
	)

	// QueryCacheHits tracks cache hits for warehouse query results
	QueryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_query_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"cache"},
	)

	// QueryCacheMisses tracks cache misses for warehouse query results
	QueryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_query_cache_misses_total",
			Help: "Total number of query cache misses",
		},
		[]string{"cache", "reason"}, // reason: absent, expired
	)

	// QueryCacheEntries tracks the number of entries held by the query cache
	QueryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "injuryboard_query_cache_entries",
			Help: "Number of entries in the query cache",
		},
	)

	// ViewsRendered counts dashboard views computed
	ViewsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_views_rendered_total",
			Help: "Total number of dashboard views computed",
		},
		[]string{"view", "result"}, // result: ok, empty, error
	)

	// RowsProcessed counts table rows fed to each pipeline stage
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_rows_processed_total",
			Help: "Total number of table rows processed by a pipeline stage",
		},
		[]string{"stage"}, // stage: aggregate, bucketize
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "injuryboard_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordClickHouseQuery records ClickHouse query metrics
func RecordClickHouseQuery(queryType, status string, duration float64) {
	ClickHouseQueries.WithLabelValues(queryType, status).Inc()
	ClickHouseQueryDuration.WithLabelValues(queryType).Observe(duration)
}

// RecordClickHouseRows records rows returned
func RecordClickHouseRows(queryType string, count float64) {
	ClickHouseRowsReturned.WithLabelValues(queryType).Add(count)
}

// RecordQueryCacheHit records a query cache hit
func RecordQueryCacheHit(cache string) {
	QueryCacheHits.WithLabelValues(cache).Inc()
}

// RecordQueryCacheMiss records a query cache miss
func RecordQueryCacheMiss(cache, reason string) {
	QueryCacheMisses.WithLabelValues(cache, reason).Inc()
}

// SetQueryCacheEntries sets the current number of cache entries
func SetQueryCacheEntries(n int) {
	QueryCacheEntries.Set(float64(n))
}

// RecordView records a computed dashboard view
func RecordView(view, result string) {
	ViewsRendered.WithLabelValues(view, result).Inc()
}

// RecordRowsProcessed records rows handled by a pipeline stage
func RecordRowsProcessed(stage string, rows int) {
	RowsProcessed.WithLabelValues(stage).Add(float64(rows))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
