// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package metrics

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Aggregator execution and outcomes
// - Run pipeline (source loads, normalization, snapshots)
// - Result cache efficiency
// - Circuit breakers around remote sources
// - API endpoint latency and throughput

var (
	// Aggregator Metrics
	AggregatorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "larder_aggregator_duration_seconds",
			Help:    "Duration of a single aggregator invocation in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"aggregator"},
	)

	AggregatorOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_aggregator_outcomes_total",
			Help: "Total aggregator invocations by result status",
		},
		[]string{"aggregator", "status"}, // status: "ok", "no_result", "failed"
	)

	AggregatorPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_aggregator_panics_total",
			Help: "Total aggregator panics recovered by the engine",
		},
		[]string{"aggregator"},
	)

	// Run Metrics
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "larder_run_duration_seconds",
			Help:    "Duration of a full aggregation run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_runs_total",
			Help: "Total aggregation runs by outcome",
		},
		[]string{"trigger", "outcome"}, // outcome: "success", "source_error", "error"
	)

	RunLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "larder_run_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		},
	)

	RunsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_runs_rejected_total",
			Help: "Total manual run requests rejected",
		},
		[]string{"reason"}, // reason: "in_progress", "throttled"
	)

	// Source Metrics
	SourceLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "larder_source_load_duration_seconds",
			Help:    "Duration of loading raw record sets from a source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_source_load_errors_total",
			Help: "Total source load failures",
		},
		[]string{"source", "error_type"},
	)

	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "larder_records_loaded",
			Help: "Number of raw records loaded in the last run, per entity",
		},
		[]string{"entity"},
	)

	NormalizationAnomalies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "larder_normalization_anomalies",
			Help: "Records with missing join keys or unparseable numeric values in the last run",
		},
		[]string{"entity", "kind"}, // kind: "missing_key", "unparseable"
	)

	QualityIssues = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "larder_quality_issues",
			Help: "Data-quality issues found in the last loaded dataset, per entity",
		},
		[]string{"entity"},
	)

	// Snapshot Metrics
	SnapshotOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "larder_snapshot_operations_total",
			Help: "Total snapshot store operations",
		},
		[]string{"operation", "result"}, // result: "success", "error", "not_found"
	)

	// Result Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "larder_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "larder_cache_entries",
			Help: "Current number of cached result payloads",
		},
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

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "larder_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAggregator records one aggregator invocation
func RecordAggregator(name, status string, duration time.Duration) {
	AggregatorDuration.WithLabelValues(name).Observe(duration.Seconds())
	AggregatorOutcomes.WithLabelValues(name, status).Inc()
}

// RecordAggregatorPanic records a recovered aggregator panic
func RecordAggregatorPanic(name string) {
	AggregatorPanics.WithLabelValues(name).Inc()
}

// RecordRun records a completed or failed run
func RecordRun(trigger string, duration time.Duration, err error) {
	RunDuration.Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
		if strings.Contains(err.Error(), "source unavailable") {
			outcome = "source_error"
		}
	} else {
		RunLastSuccess.Set(float64(time.Now().Unix()))
	}
	RunsTotal.WithLabelValues(trigger, outcome).Inc()
}

// RecordRunRejected records a manual trigger that was turned away
func RecordRunRejected(reason string) {
	RunsRejected.WithLabelValues(reason).Inc()
}

// RecordSourceLoad records a source load attempt
func RecordSourceLoad(source string, duration time.Duration, err error) {
	SourceLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		SourceLoadErrors.WithLabelValues(source, errorType(err)).Inc()
	}
}

// SetRecordsLoaded publishes per-entity record counts
func SetRecordsLoaded(counts map[string]int) {
	for entity, n := range counts {
		RecordsLoaded.WithLabelValues(entity).Set(float64(n))
	}
}

// SetNormalizationAnomalies publishes per-entity normalization anomaly counts
func SetNormalizationAnomalies(missingKeys, unparseable map[string]int) {
	NormalizationAnomalies.Reset()
	for entity, n := range missingKeys {
		NormalizationAnomalies.WithLabelValues(entity, "missing_key").Set(float64(n))
	}
	for entity, n := range unparseable {
		NormalizationAnomalies.WithLabelValues(entity, "unparseable").Set(float64(n))
	}
}

// SetQualityIssues publishes per-entity data-quality issue counts
func SetQualityIssues(byEntity map[string]int) {
	QualityIssues.Reset()
	for entity, n := range byEntity {
		QualityIssues.WithLabelValues(entity).Set(float64(n))
	}
}

// RecordSnapshotOperation records a snapshot store operation
func RecordSnapshotOperation(operation, result string) {
	SnapshotOperations.WithLabelValues(operation, result).Inc()
}

// RecordCacheHit records a result cache hit
func RecordCacheHit() {
	CacheHits.Inc()
}

// RecordCacheMiss records a result cache miss
func RecordCacheMiss() {
	CacheMisses.Inc()
}

// SetCacheEntries publishes the number of cached payloads
func SetCacheEntries(n int) {
	CacheEntries.Set(float64(n))
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

// errorType buckets an error into a low-cardinality label value.
func errorType(err error) string {
	var timeout interface{ Timeout() bool }
	switch msg := strings.ToLower(err.Error()); {
	case errors.As(err, &timeout) && timeout.Timeout(), strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	case errors.Is(err, fs.ErrNotExist), strings.Contains(msg, "no such file"), strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "connect"), strings.Contains(msg, "dial"):
		return "connection"
	case strings.Contains(msg, "parse"), strings.Contains(msg, "decode"), strings.Contains(msg, "invalid"):
		return "parse"
	default:
		return "other"
	}
}
