// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by cache name and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_cache_lookups_total",
		Help: "Total number of cache lookups by cache and result",
	}, []string{"cache", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// QueryOperations counts facade operations by name and status (ok, error).
	QueryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_query_operations_total",
		Help: "Total number of query operations by operation and status",
	}, []string{"operation", "status"})

	// QueryOperationLatency records facade operation latency.
	QueryOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_query_operation_latency_seconds",
		Help:    "Query operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// FollowOutcomes counts follow and unfollow attempts by outcome.
	FollowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_follow_outcomes_total",
		Help: "Total number of follow graph mutations by action and outcome",
	}, []string{"action", "outcome"})

	// LikeToggles counts like toggles by outcome.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})
)

// DatabaseMetrics records query latency for a repository.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a DatabaseMetrics for table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}

// RecordQueryOperation records the status and latency of a facade operation.
func RecordQueryOperation(operation string, failed bool, start time.Time) {
	status := "ok"
	if failed {
		status = "error"
	}
	QueryOperations.WithLabelValues(operation, status).Inc()
	QueryOperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
