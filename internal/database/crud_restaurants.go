// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

const selectRestaurantColumns = `SELECT id, name, area, rating, sigma, created_at FROM restaurants`

// loadRestaurants runs a restaurant query and attaches cuisine tags in
// their stored order. Results are ordered by id.
func loadRestaurants(ctx context.Context, q querier, where string, args ...interface{}) ([]models.Restaurant, error) {
	query := selectRestaurantColumns
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer closeWithLog(rows, "rows")

	restaurants := []models.Restaurant{}
	index := make(map[int64]int)
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Area, &r.Rating, &r.Sigma, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		r.CuisineTypes = []string{}
		index[r.ID] = len(restaurants)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	if len(restaurants) == 0 {
		return restaurants, nil
	}

	cuisineRows, err := q.QueryContext(ctx,
		`SELECT restaurant_id, cuisine FROM restaurant_cuisines ORDER BY restaurant_id, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query cuisines: %w", err)
	}
	defer closeWithLog(cuisineRows, "rows")

	for cuisineRows.Next() {
		var (
			id      int64
			cuisine string
		)
		if err := cuisineRows.Scan(&id, &cuisine); err != nil {
			return nil, fmt.Errorf("scan cuisine: %w", err)
		}
		if i, ok := index[id]; ok {
			restaurants[i].CuisineTypes = append(restaurants[i].CuisineTypes, cuisine)
		}
	}
	if err := cuisineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cuisines: %w", err)
	}

	return restaurants, nil
}

// GetRestaurants returns the whole catalog ordered by id.
func (db *DB) GetRestaurants(ctx context.Context) (restaurants []models.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRestaurants, time.Since(start), err) }()

	return loadRestaurants(ctx, db.conn, "")
}

// GetRestaurantByID returns the restaurant or nil when it does not exist.
func (db *DB) GetRestaurantByID(ctx context.Context, id int64) (restaurant *models.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRestaurants, time.Since(start), err) }()

	restaurants, err := loadRestaurants(ctx, db.conn, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, nil
	}
	return &restaurants[0], nil
}

// GetRestaurantsByArea returns restaurants whose area matches, ignoring case.
func (db *DB) GetRestaurantsByArea(ctx context.Context, area string) (restaurants []models.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRestaurants, time.Since(start), err) }()

	return loadRestaurants(ctx, db.conn, "lower(area) = lower(?)", area)
}

// GetRestaurantsByCuisine returns restaurants tagged with cuisine, ignoring case.
func (db *DB) GetRestaurantsByCuisine(ctx context.Context, cuisine string) (restaurants []models.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRestaurants, time.Since(start), err) }()

	return loadRestaurants(ctx, db.conn,
		"id IN (SELECT restaurant_id FROM restaurant_cuisines WHERE lower(cuisine) = lower(?))", cuisine)
}

// UpdateRestaurantRating overwrites a restaurant's rating and sigma.
func (db *DB) UpdateRestaurantRating(ctx context.Context, id int64, rating crowdbt.Rating) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update", tableRestaurants, time.Since(start), err) }()

	return withRetry(ctx, "update_restaurant_rating", func() error {
		res, err := db.conn.ExecContext(ctx,
			`UPDATE restaurants SET rating = ?, sigma = ? WHERE id = ?`, rating.Value, rating.Sigma, id)
		if err != nil {
			return fmt.Errorf("update restaurant %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update restaurant %d: %w", id, sql.ErrNoRows)
		}
		return nil
	})
}

// CreateRestaurant adds a restaurant at rating 0 with full uncertainty.
func (db *DB) CreateRestaurant(ctx context.Context, name, area string, cuisines []string) (restaurant *models.Restaurant, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", tableRestaurants, time.Since(start), err) }()

	name, area = strings.TrimSpace(name), strings.TrimSpace(area)
	created := &models.Restaurant{
		Name:         name,
		Area:         area,
		CuisineTypes: make([]string, 0, len(cuisines)),
		Rating:       0,
		Sigma:        crowdbt.InitialSigma,
		CreatedAt:    now(),
	}
	for _, c := range cuisines {
		if c = strings.TrimSpace(c); c != "" {
			created.CuisineTypes = append(created.CuisineTypes, c)
		}
	}

	err = db.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO restaurants (name, area, rating, sigma, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
			created.Name, created.Area, created.Rating, created.Sigma, created.CreatedAt,
		).Scan(&created.ID); err != nil {
			return fmt.Errorf("insert restaurant: %w", err)
		}

		for i, cuisine := range created.CuisineTypes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO restaurant_cuisines (restaurant_id, ordinal, cuisine) VALUES (?, ?, ?)`,
				created.ID, i, cuisine,
			); err != nil {
				return fmt.Errorf("insert cuisine %q: %w", cuisine, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CountRestaurants returns the catalog size.
func (db *DB) CountRestaurants(ctx context.Context) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return count, nil
}
