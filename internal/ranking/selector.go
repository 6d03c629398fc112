// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/forkrank/internal/models"
)

// DefaultExploreTriedProbability is the chance a warm-mode pair is drawn
// entirely from restaurants the user has already tried.
const DefaultExploreTriedProbability = 0.3

// Pair selection modes.
const (
	// PairModeCold draws both restaurants from the full catalog.
	PairModeCold = "cold"
	// PairModeTriedPair draws both restaurants from the user's tried set.
	PairModeTriedPair = "tried_pair"
	// PairModeAnchored pairs one tried restaurant with one untried restaurant.
	PairModeAnchored = "anchored"
)

// Selector chooses the next pair of restaurants to show a user.
//
// A user with no tried restaurants gets a uniform draw from the catalog.
// Once a user has tried something, pairs are anchored on a tried restaurant
// so that every answer can be judged from experience, with an occasional
// pair drawn entirely from tried restaurants to refine their relative order.
type Selector struct {
	exploreTried float64

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSelector creates a selector. A zero seed seeds from the clock.
func NewSelector(exploreTried float64, seed int64) *Selector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selector{
		exploreTried: exploreTried,
		rng:          rand.New(rand.NewSource(seed)), //nolint:gosec // pair selection is not security sensitive
	}
}

// Select returns two distinct restaurants from catalog. tried holds the ids
// the user has marked as tried; ids not present in catalog are ignored.
func (s *Selector) Select(catalog []models.Restaurant, tried map[int64]struct{}) (*models.RestaurantPair, error) {
	if len(catalog) < 2 {
		return nil, &InsufficientCandidatesError{Available: len(catalog)}
	}

	var triedPool, untriedPool []models.Restaurant
	for i := range catalog {
		if _, ok := tried[catalog[i].ID]; ok {
			triedPool = append(triedPool, catalog[i])
		} else {
			untriedPool = append(untriedPool, catalog[i])
		}
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	// Nothing tried yet, or nothing left to discover.
	if len(triedPool) == 0 || len(untriedPool) == 0 {
		a, b := s.drawTwo(catalog)
		return &models.RestaurantPair{Restaurants: [2]models.Restaurant{a, b}, Mode: PairModeCold}, nil
	}

	if len(triedPool) >= 2 && s.rng.Float64() < s.exploreTried {
		a, b := s.drawTwo(triedPool)
		return &models.RestaurantPair{Restaurants: [2]models.Restaurant{a, b}, Mode: PairModeTriedPair}, nil
	}

	anchor := triedPool[s.rng.Intn(len(triedPool))]
	fresh := untriedPool[s.rng.Intn(len(untriedPool))]
	if s.rng.Intn(2) == 0 {
		anchor, fresh = fresh, anchor
	}
	return &models.RestaurantPair{Restaurants: [2]models.Restaurant{anchor, fresh}, Mode: PairModeAnchored}, nil
}

// drawTwo picks two distinct elements uniformly without replacement: a
// two-step partial Fisher-Yates over index space. Caller holds rngMu.
func (s *Selector) drawTwo(pool []models.Restaurant) (models.Restaurant, models.Restaurant) {
	first := s.rng.Intn(len(pool))
	second := s.rng.Intn(len(pool) - 1)
	if second >= first {
		second++
	}
	return pool[first], pool[second]
}
