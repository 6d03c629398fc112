// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

// MaxUserIDLength bounds the opaque user identifier.
const MaxUserIDLength = 128

// ComparisonInput is a comparison as submitted by a client, before it has
// an id or a creation time.
type ComparisonInput struct {
	WinnerID     *int64
	LoserID      *int64
	UserID       string
	Context      map[string]interface{}
	NotTried     bool
	PresentedIDs []int64
}

// Validate enforces the shape rules of a ledger entry:
// a not-tried entry names neither restaurant, a choice names two distinct
// restaurants, and every entry has a user.
func (in *ComparisonInput) Validate() error {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if len(userID) > MaxUserIDLength {
		return &ValidationError{Field: "userId", Reason: fmt.Sprintf("must be at most %d characters", MaxUserIDLength)}
	}

	hasWinner, hasLoser := in.WinnerID != nil, in.LoserID != nil

	if in.NotTried {
		if hasWinner || hasLoser {
			return &ValidationError{Field: "notTried", Reason: "a not-tried comparison must not name a winner or loser"}
		}
		return nil
	}

	switch {
	case !hasWinner && !hasLoser:
		return &ValidationError{Field: "winnerId", Reason: "winner and loser are required unless notTried is set"}
	case hasWinner != hasLoser:
		return &ValidationError{Field: "loserId", Reason: "winner and loser must both be set or both be omitted"}
	case *in.WinnerID == *in.LoserID:
		return &ValidationError{Field: "loserId", Reason: "winner and loser must be different restaurants"}
	}
	return nil
}

// referencedIDs lists every restaurant id the comparison points at.
func (in *ComparisonInput) referencedIDs() []int64 {
	ids := make([]int64, 0, 2+len(in.PresentedIDs))
	if in.WinnerID != nil {
		ids = append(ids, *in.WinnerID)
	}
	if in.LoserID != nil {
		ids = append(ids, *in.LoserID)
	}
	return append(ids, in.PresentedIDs...)
}

// Ledger is the append-only log of comparisons.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger backed by store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Record validates and appends a comparison. Every referenced restaurant must
// exist; otherwise nothing is written. A choice also marks both restaurants
// as tried by the user.
func (l *Ledger) Record(ctx context.Context, in ComparisonInput) (*models.Comparison, error) {
	if err := in.Validate(); err != nil {
		metrics.RecordComparisonRejected("validation")
		return nil, err
	}

	if err := l.requireRestaurants(ctx, in.referencedIDs()); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			metrics.RecordComparisonRejected("not_found")
		}
		return nil, err
	}

	stored, err := l.store.CreateComparison(ctx, &models.Comparison{
		WinnerID:     in.WinnerID,
		LoserID:      in.LoserID,
		UserID:       strings.TrimSpace(in.UserID),
		Context:      in.Context,
		NotTried:     in.NotTried,
		PresentedIDs: in.PresentedIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("append comparison: %w", err)
	}

	if stored.IsChoice() {
		for _, id := range []int64{*stored.WinnerID, *stored.LoserID} {
			if err := l.store.MarkRestaurantAsTried(ctx, stored.UserID, id); err != nil {
				return stored, fmt.Errorf("mark restaurant %d tried: %w", id, err)
			}
		}
	}

	metrics.RecordComparison(stored.NotTried)
	return stored, nil
}

func (l *Ledger) requireRestaurants(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		r, err := l.store.GetRestaurantByID(ctx, id)
		if err != nil {
			return fmt.Errorf("look up restaurant %d: %w", id, err)
		}
		if r == nil {
			return restaurantNotFound(id)
		}
	}
	return nil
}

// ListByUser returns the user's comparisons in ledger order.
func (l *Ledger) ListByUser(ctx context.Context, userID string) ([]models.Comparison, error) {
	comparisons, err := l.store.GetComparisons(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list comparisons for %s: %w", userID, err)
	}
	SortLedger(comparisons)
	return comparisons, nil
}

// ListAll returns every comparison in ledger order.
func (l *Ledger) ListAll(ctx context.Context) ([]models.Comparison, error) {
	comparisons, err := l.store.GetAllComparisons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	SortLedger(comparisons)
	return comparisons, nil
}

// SortLedger orders comparisons by ascending id, the ledger's append order.
func SortLedger(comparisons []models.Comparison) {
	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].Before(&comparisons[j])
	})
}
