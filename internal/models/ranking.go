// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package models

import (
	"time"
)

// PersonalRanking is the persisted per-user rating state for one restaurant.
// A row exists only once the restaurant has appeared in one of the user's
// choice comparisons.
type PersonalRanking struct {
	UserID       string    `json:"userId"`
	RestaurantID int64     `json:"restaurantId"`
	Score        float64   `json:"score"`
	Sigma        float64   `json:"sigma"`
	TotalChoices int       `json:"totalChoices"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PersonalRankingEntry is one row of a user's derived personal ranking.
// Every catalog restaurant gets an entry; untouched restaurants sit at the
// baseline score with TotalChoices 0.
type PersonalRankingEntry struct {
	Rank         int      `json:"rank"`
	RestaurantID int64    `json:"restaurantId"`
	Name         string   `json:"name"`
	Area         string   `json:"area"`
	CuisineTypes []string `json:"cuisineTypes"`
	Score        float64  `json:"score"`
	Sigma        float64  `json:"sigma"`
	TotalChoices int      `json:"totalChoices"`
}

// Recommendation is a catalog restaurant scored for a user. Restaurants
// the user has already tried are scored like any other.
//
// PreferenceScore is the sum of the user's cuisine affinities over the
// restaurant's cuisine types. PersonalScore is the user's personal ranking
// score for the restaurant, or 0 when none exists. Score is their sum.
type Recommendation struct {
	Restaurant
	PreferenceScore float64 `json:"preferenceScore"`
	PersonalScore   float64 `json:"personalScore"`
	Score           float64 `json:"score"`
}

// HighWaterMark identifies the ledger and catalog state a derived personal
// ranking was computed from. Two marks are equal only when no comparison has
// been appended for the user and the catalog size is unchanged.
type HighWaterMark struct {
	LastComparisonID int64 `json:"lastComparisonId"`
	Comparisons      int   `json:"comparisons"`
	Restaurants      int   `json:"restaurants"`
}

// PersonalSnapshot is a cached personal ranking.
type PersonalSnapshot struct {
	UserID     string                 `json:"userId"`
	Mark       HighWaterMark          `json:"mark"`
	Entries    []PersonalRankingEntry `json:"entries"`
	ComputedAt time.Time              `json:"computedAt"`
}
