// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reconcile triggers reported with rankings_updated broadcasts.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
)

// GlobalReconciler replays the full ledger into the global ratings.
// Satisfied by *ranking.Service.
type GlobalReconciler interface {
	RecomputeGlobal(ctx context.Context) error
}

// RankingsNotifier is satisfied by *websocket.Hub.
type RankingsNotifier interface {
	BroadcastRankingsUpdated(scope, userID, trigger string, duration time.Duration)
}

// ReconcileServiceConfig holds periodic reconcile settings.
type ReconcileServiceConfig struct {
	// OnStartup replays once when the service starts.
	OnStartup bool

	// Interval between replays. Must be positive.
	Interval time.Duration

	// Timeout bounds a single replay. Default: 5m
	Timeout time.Duration
}

// ReconcileService replays the global ranking on a fixed interval so the
// stored ratings converge to the ledger even when event-driven replays were
// throttled or skipped.
type ReconcileService struct {
	reconciler GlobalReconciler
	notifier   RankingsNotifier
	config     ReconcileServiceConfig
	logger     zerolog.Logger
	name       string
}

// NewReconcileService creates the service. notifier may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReconcileService(reconciler GlobalReconciler, notifier RankingsNotifier, cfg ReconcileServiceConfig, logger zerolog.Logger) *ReconcileService {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &ReconcileService{
		reconciler: reconciler,
		notifier:   notifier,
		config:     cfg,
		logger:     logger.With().Str("service", "reconcile").Logger(),
		name:       "reconcile-service",
	}
}

// Serve implements suture.Service. Replay failures are logged and retried
// on the next tick.
func (s *ReconcileService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("reconcile service starting")

	if s.config.OnStartup {
		if err := s.reconcile(ctx, TriggerStartup); err != nil {
			s.logger.Warn().Err(err).Msg("startup reconcile failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reconcile service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.reconcile(ctx, TriggerInterval); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled reconcile failed")
			}
		}
	}
}

func (s *ReconcileService) reconcile(ctx context.Context, trigger string) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.reconciler.RecomputeGlobal(runCtx); err != nil {
		return err
	}
	duration := time.Since(start)

	s.logger.Info().Str("trigger", trigger).Dur("duration", duration).Msg("global ranking reconciled")
	if s.notifier != nil {
		s.notifier.BroadcastRankingsUpdated("global", "", trigger, duration)
	}
	return nil
}

// String identifies the service in supervisor logs.
func (s *ReconcileService) String() string {
	return s.name
}
