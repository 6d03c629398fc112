// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package main

import (
	"fmt"

	"github.com/tomtom215/forkrank/internal/config"
	"github.com/tomtom215/forkrank/internal/eventprocessor"
	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/ranking"
	"github.com/tomtom215/forkrank/internal/snapshot"
	ws "github.com/tomtom215/forkrank/internal/websocket"
)

// initSnapshots opens the BadgerDB snapshot cache and attaches it to the
// ranking service. Returns nil, nil when snapshots are disabled.
func initSnapshots(cfg *config.Config, svc *ranking.Service) (*snapshot.Store, error) {
	if !cfg.Snapshot.Enabled {
		logging.Info().Msg("Personal snapshot cache disabled (SNAPSHOT_ENABLED=false)")
		return nil, nil
	}

	store, err := snapshot.Open(&snapshot.Config{
		Path:     cfg.Snapshot.Path,
		InMemory: cfg.Snapshot.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	svc.SetSnapshotCache(store)

	logging.Info().
		Str("path", cfg.Snapshot.Path).
		Bool("in_memory", cfg.Snapshot.InMemory).
		Msg("Personal snapshot cache enabled")
	return store, nil
}

// initEvents builds the comparison event pipeline and makes it the ranking
// service's publisher. Returns nil, nil when events are disabled.
func initEvents(cfg *config.Config, svc *ranking.Service, snapStore *snapshot.Store, hub *ws.Hub) (*eventprocessor.Pipeline, error) {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Comparison event pipeline disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	// A typed nil store must not reach the pipeline as a non-nil interface.
	var invalidator eventprocessor.SnapshotInvalidator
	if snapStore != nil {
		invalidator = snapStore
	}

	pipeline, err := eventprocessor.NewPipeline(eventprocessor.ConfigFromEvents(&cfg.Events), svc, invalidator, hub)
	if err != nil {
		return nil, err
	}
	svc.SetEventPublisher(pipeline.Publisher())

	logging.Info().
		Float64("reconcile_rate", cfg.Events.ReconcileRate).
		Int("reconcile_burst", cfg.Events.ReconcileBurst).
		Msg("Comparison event pipeline enabled")
	return pipeline, nil
}
