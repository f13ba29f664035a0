// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8480/metrics

# Available Metrics

Aggregation:
  - larder_aggregator_duration_seconds: per-aggregator latency (histogram)
  - larder_aggregator_outcomes_total: results by status ok, no_result, failed
  - larder_aggregator_panics_total: recovered panics

Runs:
  - larder_run_duration_seconds: full run latency (histogram)
  - larder_runs_total: runs by trigger and outcome
  - larder_run_last_success_timestamp: unix time of the last good run
  - larder_runs_rejected_total: manual triggers refused (in_progress, throttled)

Input:
  - larder_source_load_duration_seconds, larder_source_load_errors_total
  - larder_records_loaded: records per entity from the last load
  - larder_normalization_anomalies: missing keys and unparseable values
  - larder_quality_issues: data-quality findings per entity

Storage and cache:
  - larder_snapshot_operations_total
  - larder_cache_hits_total, larder_cache_misses_total, larder_cache_entries

Circuit breaker:
  - circuit_breaker_state: 0 closed, 1 half-open, 2 open
  - circuit_breaker_requests_total, circuit_breaker_consecutive_failures,
    circuit_breaker_state_transitions_total

HTTP:
  - http_requests_total, http_request_duration_seconds, http_requests_in_flight

# Usage Example

	start := time.Now()
	rs := run(ds)
	metrics.RecordAggregator(name, rs.Status, time.Since(start))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
