// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Comparison ingestion and rating updates
// - Ranking recomputation
// - Personal snapshot cache efficiency
// - Comparison events and WebSocket fan-out

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBTransactionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_transaction_retries_total",
			Help: "Total number of transactions retried after a write conflict",
		},
		[]string{"operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Comparison Metrics
	ComparisonsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparisons_recorded_total",
			Help: "Total number of comparisons appended to the ledger",
		},
		[]string{"kind"}, // "choice", "not_tried"
	)

	ComparisonsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparisons_rejected_total",
			Help: "Total number of comparisons rejected before persistence",
		},
		[]string{"reason"}, // "validation", "not_found"
	)

	RatingUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_updates_total",
			Help: "Total number of incremental CrowdBT updates applied",
		},
		[]string{"scope"}, // "global", "personal"
	)

	RatingComputationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_computation_errors_total",
			Help: "Total number of rating updates rejected for producing non-finite values",
		},
		[]string{"scope"},
	)

	PairsSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairs_selected_total",
			Help: "Total number of restaurant pairs offered, by selection mode",
		},
		[]string{"mode"}, // "cold", "tried_pair", "anchored"
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
	)

	// Recompute Metrics
	RecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_recompute_duration_seconds",
			Help:    "Duration of full ledger replays in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"scope"}, // "global", "personal"
	)

	RecomputeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_recompute_errors_total",
			Help: "Total number of failed ledger replays",
		},
		[]string{"scope"},
	)

	ReconcileSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_reconcile_skipped_total",
			Help: "Total number of event-driven reconciliations skipped",
		},
		[]string{"reason"}, // "rate_limited", "circuit_open"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "personal_snapshot"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache entries invalidated",
		},
		[]string{"cache_type"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{"topic", "result"}, // result: "success", "failure"
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events consumed",
		},
		[]string{"topic", "result"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimited records a request rejected by the HTTP rate limiter.
func RecordRateLimited(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordComparison records a comparison appended to the ledger.
func RecordComparison(notTried bool) {
	kind := "choice"
	if notTried {
		kind = "not_tried"
	}
	ComparisonsRecorded.WithLabelValues(kind).Inc()
}

// RecordComparisonRejected records a comparison refused before persistence.
func RecordComparisonRejected(reason string) {
	ComparisonsRejected.WithLabelValues(reason).Inc()
}

// RecordRatingUpdate records one incremental rating update for the scope.
func RecordRatingUpdate(scope string, err error) {
	if err != nil {
		RatingComputationErrors.WithLabelValues(scope).Inc()
		return
	}
	RatingUpdates.WithLabelValues(scope).Inc()
}

// RecordRecompute records a full ledger replay.
func RecordRecompute(scope string, duration time.Duration, err error) {
	RecomputeDuration.WithLabelValues(scope).Observe(duration.Seconds())
	if err != nil {
		RecomputeErrors.WithLabelValues(scope).Inc()
	}
}

// RecordPairSelected records the selection mode of an offered pair.
func RecordPairSelected(mode string) {
	PairsSelected.WithLabelValues(mode).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordEventPublished records the outcome of publishing an event.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventProcessed records the outcome of handling a consumed event.
func RecordEventProcessed(topic string, err error) {
	EventsProcessed.WithLabelValues(topic, resultLabel(err)).Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// StatusLabel converts an HTTP status code to a metric label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
