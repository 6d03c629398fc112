// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"sort"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/models"
)

// Rating scopes used in errors, metrics and lock keys.
const (
	ScopeGlobal   = "global"
	ScopePersonal = "personal"
)

// GlobalAggregator rebuilds the consensus rating of every restaurant from
// the complete ledger.
type GlobalAggregator struct {
	params crowdbt.Params
}

// NewGlobalAggregator creates an aggregator using params.
func NewGlobalAggregator(params crowdbt.Params) *GlobalAggregator {
	return &GlobalAggregator{params: params}
}

// Replay seeds every restaurant at rating 0 with full uncertainty and
// applies each choice in ledger order. Not-tried entries are skipped.
// The ledger must already be in ledger order.
func (g *GlobalAggregator) Replay(restaurants []models.Restaurant, ledger []models.Comparison) (map[int64]crowdbt.Rating, error) {
	states := make(map[int64]crowdbt.Rating, len(restaurants))
	for i := range restaurants {
		states[restaurants[i].ID] = crowdbt.Initial(0)
	}

	if err := replay(g.params, ScopeGlobal, states, ledger); err != nil {
		return nil, err
	}
	return states, nil
}

// replay folds the choices in ledger into states. Every referenced
// restaurant must already be present in states.
func replay(params crowdbt.Params, scope string, states map[int64]crowdbt.Rating, ledger []models.Comparison) error {
	for i := range ledger {
		c := &ledger[i]
		if !c.IsChoice() {
			continue
		}

		winner, ok := states[*c.WinnerID]
		if !ok {
			return restaurantNotFound(*c.WinnerID)
		}
		loser, ok := states[*c.LoserID]
		if !ok {
			return restaurantNotFound(*c.LoserID)
		}

		newWinner, newLoser := params.Update(winner, loser)
		if !newWinner.Finite() {
			return &ComputationError{Scope: scope, ComparisonID: c.ID, RestaurantID: *c.WinnerID}
		}
		if !newLoser.Finite() {
			return &ComputationError{Scope: scope, ComparisonID: c.ID, RestaurantID: *c.LoserID}
		}

		states[*c.WinnerID] = newWinner
		states[*c.LoserID] = newLoser
	}
	return nil
}

// SortByRating orders restaurants by rating descending, ties by name.
func SortByRating(restaurants []models.Restaurant) {
	sort.SliceStable(restaurants, func(i, j int) bool {
		if restaurants[i].Rating != restaurants[j].Rating {
			return restaurants[i].Rating > restaurants[j].Rating
		}
		return restaurants[i].Name < restaurants[j].Name
	})
}

// Ranked numbers an already sorted listing from 1.
func Ranked(restaurants []models.Restaurant) []models.RankedRestaurant {
	ranked := make([]models.RankedRestaurant, len(restaurants))
	for i := range restaurants {
		ranked[i] = models.RankedRestaurant{Rank: i + 1, Restaurant: restaurants[i]}
	}
	return ranked
}
