// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

// GlobalRecomputer replays the full ledger into the global ratings.
// Satisfied by *ranking.Service.
type GlobalRecomputer interface {
	RecomputeGlobal(ctx context.Context) error
}

// SnapshotInvalidator drops a user's personal snapshot.
// Satisfied by *snapshot.Store.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Notifier pushes ranking events to live clients.
// Satisfied by *websocket.Hub.
type Notifier interface {
	BroadcastComparisonRecorded(event *models.ComparisonRecordedEvent)
	BroadcastRankingsUpdated(scope, userID, trigger string, duration time.Duration)
}

// TriggerEvent labels replays started by a comparison event.
const TriggerEvent = "event"

// admittedKey marks a message that already passed the rate limiter, so
// retries of the same message are not throttled again.
type admittedKey struct{}

// Reconciler consumes ComparisonRecorded events. For each event it:
//  1. invalidates the user's personal snapshot
//  2. broadcasts comparison_recorded
//  3. for choices, replays the global ranking, throttled by a token bucket
//     and guarded by a circuit breaker, then broadcasts rankings_updated
//
// Events over the rate limit or arriving while the breaker is open are
// acknowledged without a replay; the periodic reconcile service catches up.
type Reconciler struct {
	recomputer GlobalRecomputer
	snapshots  SnapshotInvalidator
	notifier   Notifier
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[interface{}]
}

// NewReconciler creates a Reconciler. snapshots and notifier may be nil.
func NewReconciler(recomputer GlobalRecomputer, snapshots SnapshotInvalidator, notifier Notifier, cfg Config) (*Reconciler, error) {
	if recomputer == nil {
		return nil, fmt.Errorf("%w: recomputer is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Reconciler{
		recomputer: recomputer,
		snapshots:  snapshots,
		notifier:   notifier,
		limiter:    rate.NewLimiter(rate.Limit(cfg.ReconcileRate), cfg.ReconcileBurst),
		breaker:    NewCircuitBreaker(cfg.Breaker),
	}, nil
}

// BreakerState returns the current circuit breaker state.
func (r *Reconciler) BreakerState() gobreaker.State {
	return r.breaker.State()
}

// Handle processes one ComparisonRecorded message. It is registered with
// Router.AddConsumerHandler. A returned error triggers the retry
// middleware; malformed payloads are dropped.
func (r *Reconciler) Handle(msg *message.Message) error {
	ctx := msg.Context()
	if cid := msg.Metadata.Get(MetadataCorrelationID); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}
	logger := logging.Ctx(ctx)

	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		metrics.RecordEventProcessed(TopicComparisonRecorded, err)
		logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed comparison event")
		return nil
	}

	firstAttempt := msg.Context().Value(admittedKey{}) == nil
	if firstAttempt {
		r.invalidate(ctx, event.UserID)
		if r.notifier != nil {
			r.notifier.BroadcastComparisonRecorded(event)
		}
	}

	if event.NotTried {
		metrics.RecordEventProcessed(TopicComparisonRecorded, nil)
		return nil
	}

	if firstAttempt {
		if !r.limiter.Allow() {
			metrics.ReconcileSkipped.WithLabelValues("rate_limited").Inc()
			metrics.RecordEventProcessed(TopicComparisonRecorded, nil)
			logger.Debug().Int64("comparison_id", event.ComparisonID).Msg("Global reconcile rate limited")
			return nil
		}
		msg.SetContext(context.WithValue(msg.Context(), admittedKey{}, true))
	}

	start := time.Now()
	_, err = r.breaker.Execute(func() (interface{}, error) {
		return nil, r.recomputer.RecomputeGlobal(ctx)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(r.breaker.Name(), "rejected").Inc()
		metrics.ReconcileSkipped.WithLabelValues("circuit_open").Inc()
		metrics.RecordEventProcessed(TopicComparisonRecorded, nil)
		logger.Warn().Int64("comparison_id", event.ComparisonID).Msg("Global reconcile skipped, circuit open")
		return nil
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(r.breaker.Name(), "failure").Inc()
		metrics.RecordEventProcessed(TopicComparisonRecorded, err)
		return fmt.Errorf("reconcile global ranking after comparison %d: %w", event.ComparisonID, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(r.breaker.Name(), "success").Inc()
	metrics.RecordEventProcessed(TopicComparisonRecorded, nil)
	if r.notifier != nil {
		r.notifier.BroadcastRankingsUpdated("global", "", TriggerEvent, time.Since(start))
	}
	return nil
}

func (r *Reconciler) invalidate(ctx context.Context, userID string) {
	if r.snapshots == nil || userID == "" {
		return
	}
	if err := r.snapshots.Invalidate(ctx, userID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate personal snapshot")
	}
}
