// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/ranking"
)

// ReplaceGlobalRatings reads the catalog and the full ledger inside one
// transaction, hands them to replay and writes back the returned ratings.
// If replay fails nothing is written.
func (db *DB) ReplaceGlobalRatings(ctx context.Context, replay ranking.GlobalReplayFunc) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("replay", tableRestaurants, time.Since(start), err) }()

	return withRetry(ctx, "replace_global_ratings", func() error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			restaurants, err := loadRestaurants(ctx, tx, "")
			if err != nil {
				return err
			}
			ledger, err := loadComparisons(ctx, tx, "")
			if err != nil {
				return err
			}

			ratings, err := replay(restaurants, ledger)
			if err != nil {
				return err
			}

			ids := make([]int64, 0, len(ratings))
			for id := range ratings {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

			for _, id := range ids {
				r := ratings[id]
				if _, err := tx.ExecContext(ctx,
					`UPDATE restaurants SET rating = ?, sigma = ? WHERE id = ?`, r.Value, r.Sigma, id,
				); err != nil {
					return fmt.Errorf("write rating of restaurant %d: %w", id, err)
				}
			}
			return nil
		})
	})
}

// ReplacePersonalRankings reads the catalog and userID's ledger inside one
// transaction, hands them to replay and makes the stored rows match the
// returned set: returned rows are upserted, any other row of the user is
// deleted. If replay fails nothing is written.
func (db *DB) ReplacePersonalRankings(ctx context.Context, userID string, replay ranking.PersonalReplayFunc) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("replay", tablePersonalRankings, time.Since(start), err) }()

	return withRetry(ctx, "replace_personal_rankings", func() error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			restaurants, err := loadRestaurants(ctx, tx, "")
			if err != nil {
				return err
			}
			ledger, err := loadComparisons(ctx, tx, userID)
			if err != nil {
				return err
			}

			rows, err := replay(restaurants, ledger)
			if err != nil {
				return err
			}

			// Stale rows go first; a key is never deleted and re-inserted in
			// the same transaction.
			keep := make([]interface{}, 0, len(rows)+1)
			keep = append(keep, userID)
			for i := range rows {
				keep = append(keep, rows[i].RestaurantID)
			}
			deleteQuery := `DELETE FROM personal_rankings WHERE user_id = ?`
			if len(rows) > 0 {
				deleteQuery += ` AND restaurant_id NOT IN (` + placeholders(len(rows)) + `)`
			}
			if _, err := tx.ExecContext(ctx, deleteQuery, keep...); err != nil {
				return fmt.Errorf("delete stale personal rankings: %w", err)
			}

			for i := range rows {
				pr := &rows[i]
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO personal_rankings (user_id, restaurant_id, score, sigma, total_choices, updated_at)
					VALUES (?, ?, ?, ?, ?, ?)
					ON CONFLICT (user_id, restaurant_id) DO UPDATE SET
						score = EXCLUDED.score,
						sigma = EXCLUDED.sigma,
						total_choices = EXCLUDED.total_choices,
						updated_at = EXCLUDED.updated_at`,
					userID, pr.RestaurantID, pr.Score, pr.Sigma, pr.TotalChoices, pr.UpdatedAt.UTC().Truncate(time.Microsecond),
				); err != nil {
					return fmt.Errorf("write personal ranking of restaurant %d: %w", pr.RestaurantID, err)
				}
			}
			return nil
		})
	})
}
