// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

const selectPersonalColumns = `SELECT user_id, restaurant_id, score, sigma, total_choices, updated_at FROM personal_rankings`

func scanPersonalRanking(scan func(dest ...interface{}) error) (models.PersonalRanking, error) {
	var pr models.PersonalRanking
	err := scan(&pr.UserID, &pr.RestaurantID, &pr.Score, &pr.Sigma, &pr.TotalChoices, &pr.UpdatedAt)
	return pr, err
}

// MarkRestaurantAsTried records a tried mark. Repeated marks are no-ops.
func (db *DB) MarkRestaurantAsTried(ctx context.Context, userID string, restaurantID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", tableTried, time.Since(start), err) }()

	return withRetry(ctx, "mark_tried", func() error {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO tried_restaurants (user_id, restaurant_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, restaurant_id) DO NOTHING`,
			userID, restaurantID, now())
		if err != nil {
			return fmt.Errorf("mark restaurant %d tried: %w", restaurantID, err)
		}
		return nil
	})
}

// GetTriedRestaurantIDs returns the ids userID has tried, ascending.
func (db *DB) GetTriedRestaurantIDs(ctx context.Context, userID string) (ids []int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableTried, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT restaurant_id FROM tried_restaurants WHERE user_id = ? ORDER BY restaurant_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tried restaurants: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tried restaurant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetPersonalRanking returns one row or nil when it does not exist.
func (db *DB) GetPersonalRanking(ctx context.Context, userID string, restaurantID int64) (*models.PersonalRanking, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return getPersonalRanking(ctx, db.conn, userID, restaurantID)
}

func getPersonalRanking(ctx context.Context, q querier, userID string, restaurantID int64) (pr *models.PersonalRanking, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tablePersonalRankings, time.Since(start), err) }()

	row := q.QueryRowContext(ctx, selectPersonalColumns+` WHERE user_id = ? AND restaurant_id = ?`, userID, restaurantID)
	got, err := scanPersonalRanking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get personal ranking: %w", err)
	}
	return &got, nil
}

// UpsertPersonalRanking creates the (userID, restaurantID) row at initial if
// it is missing and returns the current row. Racing callers both succeed and
// observe the same row.
func (db *DB) UpsertPersonalRanking(ctx context.Context, userID string, restaurantID int64, initial crowdbt.Rating) (pr *models.PersonalRanking, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", tablePersonalRankings, time.Since(start), err) }()

	insertErr := withRetry(ctx, "upsert_personal_ranking", func() error {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO personal_rankings (user_id, restaurant_id, score, sigma, total_choices, updated_at)
			VALUES (?, ?, ?, ?, 0, ?)
			ON CONFLICT (user_id, restaurant_id) DO NOTHING`,
			userID, restaurantID, initial.Value, initial.Sigma, now())
		return err
	})

	// A concurrent insert of the same key can surface as a constraint error
	// instead of being absorbed by DO NOTHING; the row is there either way.
	pr, err = getPersonalRanking(ctx, db.conn, userID, restaurantID)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		if insertErr != nil {
			return nil, fmt.Errorf("upsert personal ranking: %w", insertErr)
		}
		return nil, fmt.Errorf("personal ranking (%s, %d) missing after upsert", userID, restaurantID)
	}
	return pr, nil
}

// UpdatePersonalRanking overwrites the score, sigma and choice count of an
// existing row.
func (db *DB) UpdatePersonalRanking(ctx context.Context, pr *models.PersonalRanking) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update", tablePersonalRankings, time.Since(start), err) }()

	if pr.UpdatedAt.IsZero() {
		pr.UpdatedAt = now()
	}

	return withRetry(ctx, "update_personal_ranking", func() error {
		res, err := db.conn.ExecContext(ctx,
			`UPDATE personal_rankings SET score = ?, sigma = ?, total_choices = ?, updated_at = ?
			WHERE user_id = ? AND restaurant_id = ?`,
			pr.Score, pr.Sigma, pr.TotalChoices, pr.UpdatedAt.UTC().Truncate(time.Microsecond),
			pr.UserID, pr.RestaurantID)
		if err != nil {
			return fmt.Errorf("update personal ranking: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update personal ranking (%s, %d): %w", pr.UserID, pr.RestaurantID, sql.ErrNoRows)
		}
		return nil
	})
}

// GetPersonalRankings returns every stored row for userID ordered by
// restaurant id.
func (db *DB) GetPersonalRankings(ctx context.Context, userID string) (rankings []models.PersonalRanking, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tablePersonalRankings, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, selectPersonalColumns+` WHERE user_id = ? ORDER BY restaurant_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query personal rankings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	rankings = []models.PersonalRanking{}
	for rows.Next() {
		pr, err := scanPersonalRanking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan personal ranking: %w", err)
		}
		rankings = append(rankings, pr)
	}
	return rankings, rows.Err()
}
