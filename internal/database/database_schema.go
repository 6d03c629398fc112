// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"fmt"
)

// Table names, also used as metric labels.
const (
	tableRestaurants      = "restaurants"
	tableCuisines         = "restaurant_cuisines"
	tableComparisons      = "comparisons"
	tableTried            = "tried_restaurants"
	tablePersonalRankings = "personal_rankings"
)

// createTables creates sequences and tables.
//
// Timestamps are TIMESTAMP (UTC, set by the application) rather than
// TIMESTAMPTZ so the schema needs no ICU extension. Foreign keys are left out:
// DuckDB checks them on every UPDATE of the parent row, and restaurants are
// updated on every comparison. Referential checks happen in the ranking core
// before anything is written.
func (db *DB) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS restaurants_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS comparisons_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS restaurants (
			id BIGINT PRIMARY KEY DEFAULT nextval('restaurants_id_seq'),
			name VARCHAR NOT NULL,
			area VARCHAR NOT NULL,
			rating DOUBLE NOT NULL DEFAULT 0,
			sigma DOUBLE NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS restaurant_cuisines (
			restaurant_id BIGINT NOT NULL,
			ordinal INTEGER NOT NULL,
			cuisine VARCHAR NOT NULL,
			PRIMARY KEY (restaurant_id, ordinal)
		)`,

		// Append-only. winner_id and loser_id are both NULL for not-tried entries.
		`CREATE TABLE IF NOT EXISTS comparisons (
			id BIGINT PRIMARY KEY DEFAULT nextval('comparisons_id_seq'),
			winner_id BIGINT,
			loser_id BIGINT,
			user_id VARCHAR NOT NULL,
			context_json VARCHAR,
			not_tried BOOLEAN NOT NULL DEFAULT false,
			presented_ids VARCHAR,
			created_at TIMESTAMP NOT NULL,
			CHECK ((winner_id IS NULL) = (loser_id IS NULL)),
			CHECK (winner_id IS NULL OR winner_id <> loser_id)
		)`,

		`CREATE TABLE IF NOT EXISTS tried_restaurants (
			user_id VARCHAR NOT NULL,
			restaurant_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, restaurant_id)
		)`,

		`CREATE TABLE IF NOT EXISTS personal_rankings (
			user_id VARCHAR NOT NULL,
			restaurant_id BIGINT NOT NULL,
			score DOUBLE NOT NULL,
			sigma DOUBLE NOT NULL,
			total_choices INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, restaurant_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes. Only append-only tables get ART
// indexes; an indexed column that is updated in place would hit DuckDB's
// over-eager constraint checking.
func (db *DB) createIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_comparisons_user ON comparisons(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comparisons_created ON comparisons(created_at, id)`,
	}

	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
