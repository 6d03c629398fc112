// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
  - duckdb_transaction_retries_total: Replays retried after a write conflict

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Ranking Metrics:
  - comparisons_recorded_total: Ledger appends (kind: choice, not_tried)
  - comparisons_rejected_total: Refused comparisons (reason)
  - rating_updates_total: Incremental updates (scope: global, personal)
  - rating_computation_errors_total: Updates refused for non-finite results
  - pairs_selected_total: Offered pairs (mode: cold, tried_pair, anchored)
  - ranking_recompute_duration_seconds, ranking_recompute_errors_total
  - ranking_reconcile_skipped_total: Coalesced or breaker-rejected reconciles

Event and WebSocket Metrics:
  - events_published_total, events_processed_total (topic, result)
  - websocket_connections, websocket_messages_sent_total, websocket_errors_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total, circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	err := store.UpdateRestaurantRating(ctx, id, rating, sigma)
	metrics.RecordDBQuery("update", "restaurants", time.Since(start), err)
*/
package metrics
