// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import "github.com/tomtom215/forkrank/internal/ranking"

// Request structs validated with go-playground/validator before they reach
// the ranking core. The core re-checks the comparison shape rules, so these
// tags only cover what can be judged field by field.

// UserQuery is the userId query parameter shared by the per-user reads.
type UserQuery struct {
	UserID string `json:"userId" validate:"required,max=128"`
}

// FilterRequest holds the /restaurants/filter query parameters.
// Area takes precedence over cuisine when both are set.
type FilterRequest struct {
	Area    string `json:"area" validate:"omitempty,max=100"`
	Cuisine string `json:"cuisine" validate:"omitempty,cuisine"`
}

// MarkTriedRequest is the body of POST /restaurants/tried.
// An empty userId marks restaurants for the anonymous user.
type MarkTriedRequest struct {
	UserID        string  `json:"userId" validate:"omitempty,max=128"`
	RestaurantIDs []int64 `json:"restaurantIds" validate:"required,min=1,max=500,dive,gt=0"`
}

// RecordComparisonRequest is the body of POST /comparisons.
//
// A choice names winnerId and loserId. A "haven't tried both" submission
// sets notTried, omits both ids and lists the offered restaurants in
// presentedIds.
type RecordComparisonRequest struct {
	WinnerID     *int64                 `json:"winnerId" validate:"omitempty,gt=0"`
	LoserID      *int64                 `json:"loserId" validate:"omitempty,gt=0"`
	UserID       string                 `json:"userId" validate:"required,max=128"`
	Context      map[string]interface{} `json:"context" validate:"omitempty,max=32"`
	NotTried     bool                   `json:"notTried"`
	PresentedIDs []int64                `json:"presentedIds" validate:"omitempty,max=10,dive,gt=0"`
}

// ToInput converts the request to the ranking core's input.
func (r *RecordComparisonRequest) ToInput() ranking.ComparisonInput {
	return ranking.ComparisonInput{
		WinnerID:     r.WinnerID,
		LoserID:      r.LoserID,
		UserID:       r.UserID,
		Context:      r.Context,
		NotTried:     r.NotTried,
		PresentedIDs: r.PresentedIDs,
	}
}
