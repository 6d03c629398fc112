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

// GarbageCollector is satisfied by *snapshot.Store.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
	Count() (int, error)
}

// SnapshotGCService periodically reclaims BadgerDB value log space held by
// replaced or invalidated personal snapshots.
type SnapshotGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewSnapshotGCService creates the service. Zero values default to a 10m
// interval and a 0.5 discard ratio.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotGCService(store GarbageCollector, interval time.Duration, discardRatio float64, logger zerolog.Logger) *SnapshotGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &SnapshotGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("service", "snapshot-gc").Logger(),
		name:         "snapshot-gc",
	}
}

// Serve implements suture.Service.
func (s *SnapshotGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *SnapshotGCService) collect() {
	if err := s.store.RunGC(s.discardRatio); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot value log GC failed")
		return
	}
	count, err := s.store.Count()
	if err != nil {
		s.logger.Debug().Err(err).Msg("snapshot count failed")
		return
	}
	s.logger.Debug().Int("snapshots", count).Msg("snapshot value log GC complete")
}

// String identifies the service in supervisor logs.
func (s *SnapshotGCService) String() string {
	return s.name
}
