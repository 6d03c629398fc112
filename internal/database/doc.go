// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

// Package database is the DuckDB implementation of ranking.Store.
//
// # Overview
//
// The store holds the restaurant catalog, the append-only comparison ledger,
// per-user tried marks and per-user personal rankings. Ratings and personal
// scores are derived data; the ledger is the only source of truth.
//
// Files:
//   - database.go: connection lifecycle
//   - database_schema.go: sequences, tables and indexes
//   - database_utils.go: context helpers, transactions, conflict retry
//   - crud_restaurants.go: catalog reads and rating writes
//   - crud_comparisons.go: ledger appends, reads and the high-water mark
//   - crud_personal.go: tried marks and personal ranking rows
//   - replay.go: transactional full replays
//   - seed.go: starter catalog
//
// # Transactions
//
// ReplaceGlobalRatings and ReplacePersonalRankings read and write inside one
// DuckDB transaction. DuckDB uses snapshot isolation, so a replay sees a
// comparison either completely or not at all. Write conflicts are retried
// with exponential backoff (1ms, 2ms, 4ms).
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.SeedCatalog(ctx, database.DefaultCatalog()); err != nil {
//	    return err
//	}
//
//	svc, err := ranking.NewService(db, ranking.DefaultConfig())
package database
