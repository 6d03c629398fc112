// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below unwraps to one of these so callers
// can use errors.Is for coarse classification and errors.As for details.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrComputation            = errors.New("computation failed")
	ErrPartialWrite           = errors.New("comparison recorded, ratings not updated")
)

// ValidationError reports a malformed comparison or request. It is returned
// before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a reference to a restaurant that does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientCandidatesError reports that a pair cannot be formed.
type InsufficientCandidatesError struct {
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("need at least 2 restaurants to form a pair, have %d", e.Available)
}

func (e *InsufficientCandidatesError) Unwrap() error { return ErrInsufficientCandidates }

// ComputationError reports a rating update that produced NaN or Inf.
// The offending result is never persisted.
type ComputationError struct {
	Scope        string // "global" or "personal"
	ComparisonID int64  // 0 for an incremental update of a new comparison
	RestaurantID int64
}

func (e *ComputationError) Error() string {
	if e.ComparisonID != 0 {
		return fmt.Sprintf("%s rating for restaurant %d became non-finite replaying comparison %d",
			e.Scope, e.RestaurantID, e.ComparisonID)
	}
	return fmt.Sprintf("%s rating for restaurant %d became non-finite", e.Scope, e.RestaurantID)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }

// PartialWriteError reports a comparison that was appended to the ledger but
// whose follow-up writes (tried marks, incremental rating updates) failed.
// The comparison stays in the ledger; the next global replay and the next
// personal read rebuild the ratings from it. Retrying the request would
// append a duplicate.
type PartialWriteError struct {
	ComparisonID int64
	Err          error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("comparison %d recorded, ratings not updated: %v", e.ComparisonID, e.Err)
}

// Unwrap exposes both the sentinel and the underlying failure.
func (e *PartialWriteError) Unwrap() []error { return []error{ErrPartialWrite, e.Err} }

func restaurantNotFound(id int64) error {
	return &NotFoundError{Kind: "restaurant", ID: id}
}
