// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

const selectComparisonColumns = `SELECT id, winner_id, loser_id, user_id, context_json, not_tried, presented_ids, created_at FROM comparisons`

// ledgerOrder is the single ordering every ledger read uses. Ids come from
// comparisons_id_seq, so id order is append order whatever the wall clock did.
const ledgerOrder = ` ORDER BY id ASC`

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPointer(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// encodeJSON marshals v, storing NULL for empty values.
func encodeJSON(v interface{}, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanComparison(rows *sql.Rows) (models.Comparison, error) {
	var (
		c                      models.Comparison
		winner, loser          sql.NullInt64
		contextJSON, presented sql.NullString
	)
	if err := rows.Scan(&c.ID, &winner, &loser, &c.UserID, &contextJSON, &c.NotTried, &presented, &c.CreatedAt); err != nil {
		return c, fmt.Errorf("scan comparison: %w", err)
	}
	c.WinnerID = idPointer(winner)
	c.LoserID = idPointer(loser)

	if contextJSON.Valid && contextJSON.String != "" {
		if err := json.Unmarshal([]byte(contextJSON.String), &c.Context); err != nil {
			return c, fmt.Errorf("decode context of comparison %d: %w", c.ID, err)
		}
	}
	if presented.Valid && presented.String != "" {
		if err := json.Unmarshal([]byte(presented.String), &c.PresentedIDs); err != nil {
			return c, fmt.Errorf("decode presented ids of comparison %d: %w", c.ID, err)
		}
	}
	return c, nil
}

// loadComparisons returns comparisons in ledger order, optionally scoped to
// one user.
func loadComparisons(ctx context.Context, q querier, userID string) ([]models.Comparison, error) {
	query := selectComparisonColumns
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ledgerOrder

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer closeWithLog(rows, "rows")

	comparisons := []models.Comparison{}
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparisons: %w", err)
	}
	return comparisons, nil
}

// CreateComparison appends c to the ledger and returns the stored copy with
// id and creation time assigned.
func (db *DB) CreateComparison(ctx context.Context, c *models.Comparison) (stored *models.Comparison, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", tableComparisons, time.Since(start), err) }()

	contextJSON, err := encodeJSON(c.Context, len(c.Context) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	presented, err := encodeJSON(c.PresentedIDs, len(c.PresentedIDs) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode presented ids: %w", err)
	}

	out := *c
	out.CreatedAt = now()

	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO comparisons (winner_id, loser_id, user_id, context_json, not_tried, presented_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		nullableID(c.WinnerID), nullableID(c.LoserID), c.UserID, contextJSON, c.NotTried, presented, out.CreatedAt,
	).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("insert comparison: %w", err)
	}
	return &out, nil
}

// GetComparisons returns userID's comparisons in ledger order.
func (db *DB) GetComparisons(ctx context.Context, userID string) (comparisons []models.Comparison, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableComparisons, time.Since(start), err) }()

	if userID == "" {
		return []models.Comparison{}, nil
	}
	return loadComparisons(ctx, db.conn, userID)
}

// GetAllComparisons returns the whole ledger in ledger order.
func (db *DB) GetAllComparisons(ctx context.Context) (comparisons []models.Comparison, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableComparisons, time.Since(start), err) }()

	return loadComparisons(ctx, db.conn, "")
}

// GetHighWaterMark summarizes the ledger state a personal snapshot of
// userID depends on.
func (db *DB) GetHighWaterMark(ctx context.Context, userID string) (mark models.HighWaterMark, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableComparisons, time.Since(start), err) }()

	err = db.conn.QueryRowContext(ctx,
		`SELECT
			COALESCE((SELECT MAX(id) FROM comparisons WHERE user_id = ?), 0),
			(SELECT COUNT(*) FROM comparisons WHERE user_id = ?),
			(SELECT COUNT(*) FROM restaurants)`,
		userID, userID,
	).Scan(&mark.LastComparisonID, &mark.Comparisons, &mark.Restaurants)
	if err != nil {
		return models.HighWaterMark{}, fmt.Errorf("read high-water mark: %w", err)
	}
	return mark, nil
}
