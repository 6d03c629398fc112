// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package eventprocessor carries ComparisonRecorded events from the ranking
service to background reconciliation using Watermill.

Flow:

	ranking.Service.RecordComparison
	    -> Publisher.PublishComparisonRecorded   (topic comparisons.recorded)
	    -> gochannel pub/sub
	    -> Router [Recoverer, PoisonQueue, Retry]
	    -> Reconciler.Handle
	         - invalidate the user's snapshot
	         - broadcast comparison_recorded
	         - rate limit (x/time/rate)
	         - RecomputeGlobal behind a gobreaker circuit breaker
	         - broadcast rankings_updated

Messages carry a uuid message id and correlation_id, user_id and
event_type metadata. Payloads are JSON-encoded
models.ComparisonRecordedEvent.

Publishing is best effort. The ranking service logs publish failures and
the periodic reconcile service replays the global ranking regardless, so
a lost event delays a replay but never loses a comparison.

Usage:

	pipeline, err := eventprocessor.NewPipeline(cfg, svc, snapshots, hub)
	if err != nil {
	    return err
	}
	svc.SetEventPublisher(pipeline.Publisher())
	if err := pipeline.Start(ctx); err != nil {
	    return err
	}
	defer pipeline.Close(context.Background())
*/
package eventprocessor
