// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

// Package snapshot persists personal ranking snapshots in BadgerDB.
//
// A snapshot is a user's fully sorted personal ranking plus the
// models.HighWaterMark of the ledger it was computed from. The ranking
// service serves a snapshot only while the stored mark still equals the
// current one, so a stale snapshot is never returned even if an
// invalidation was lost.
//
// Keys are "personal:<userId>"; values are JSON-encoded
// models.PersonalSnapshot.
//
// Usage:
//
//	store, err := snapshot.Open(&snapshot.Config{Path: "/data/snapshots"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	svc.SetSnapshotCache(store)
package snapshot
