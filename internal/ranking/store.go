// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"context"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/models"
)

// GlobalReplayFunc computes the final global rating of every restaurant from
// the catalog and the full ledger. The store calls it inside a transaction
// and persists the returned ratings only if it returns nil.
type GlobalReplayFunc func(restaurants []models.Restaurant, ledger []models.Comparison) (map[int64]crowdbt.Rating, error)

// PersonalReplayFunc computes the personal ranking rows for one user from the
// catalog and that user's ledger. The store calls it inside a transaction and
// upserts the returned rows only if it returns nil.
type PersonalReplayFunc func(restaurants []models.Restaurant, ledger []models.Comparison) ([]models.PersonalRanking, error)

// Store is the persistence contract the ranking core depends on.
//
// Lookups of a single record return nil, nil when the record does not exist.
// Comparison listings are ordered by ascending id, the append sequence.
type Store interface {
	GetRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error)
	GetRestaurantsByArea(ctx context.Context, area string) ([]models.Restaurant, error)
	GetRestaurantsByCuisine(ctx context.Context, cuisine string) ([]models.Restaurant, error)
	UpdateRestaurantRating(ctx context.Context, id int64, rating crowdbt.Rating) error

	// CreateComparison appends to the ledger and returns the stored record
	// with its id and creation time assigned.
	CreateComparison(ctx context.Context, c *models.Comparison) (*models.Comparison, error)
	GetComparisons(ctx context.Context, userID string) ([]models.Comparison, error)
	GetAllComparisons(ctx context.Context) ([]models.Comparison, error)
	GetHighWaterMark(ctx context.Context, userID string) (models.HighWaterMark, error)

	MarkRestaurantAsTried(ctx context.Context, userID string, restaurantID int64) error
	GetTriedRestaurantIDs(ctx context.Context, userID string) ([]int64, error)

	GetPersonalRanking(ctx context.Context, userID string, restaurantID int64) (*models.PersonalRanking, error)
	// UpsertPersonalRanking creates the row at the given starting rating if
	// it does not exist and returns the current row either way. Concurrent
	// calls for the same key must not fail.
	UpsertPersonalRanking(ctx context.Context, userID string, restaurantID int64, initial crowdbt.Rating) (*models.PersonalRanking, error)
	UpdatePersonalRanking(ctx context.Context, pr *models.PersonalRanking) error
	GetPersonalRankings(ctx context.Context, userID string) ([]models.PersonalRanking, error)

	ReplaceGlobalRatings(ctx context.Context, replay GlobalReplayFunc) error
	ReplacePersonalRankings(ctx context.Context, userID string, replay PersonalReplayFunc) error
}

// SnapshotCache stores derived personal rankings keyed by user.
type SnapshotCache interface {
	// Get returns nil, nil when no snapshot exists for the user.
	Get(ctx context.Context, userID string) (*models.PersonalSnapshot, error)
	Put(ctx context.Context, snapshot *models.PersonalSnapshot) error
	Invalidate(ctx context.Context, userID string) error
}

// EventPublisher announces ledger appends to downstream consumers.
type EventPublisher interface {
	PublishComparisonRecorded(ctx context.Context, c *models.Comparison) error
}
