// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"sort"

	"github.com/tomtom215/forkrank/internal/models"
)

// DefaultRecommendationLimit is the number of recommendations returned.
const DefaultRecommendationLimit = 5

// Cuisine affinity weights.
const (
	winnerCuisineWeight = 1.0
	loserCuisineWeight  = -0.5
)

// CuisineAffinity accumulates a preference per cuisine tag from a user's
// choices. Not-tried entries and ids missing from byID contribute nothing.
func CuisineAffinity(ledger []models.Comparison, byID map[int64]*models.Restaurant) map[string]float64 {
	affinity := make(map[string]float64)
	for i := range ledger {
		c := &ledger[i]
		if !c.IsChoice() {
			continue
		}
		winner, loser := byID[*c.WinnerID], byID[*c.LoserID]
		if winner == nil || loser == nil {
			continue
		}
		for _, cuisine := range winner.CuisineTypes {
			affinity[cuisine] += winnerCuisineWeight
		}
		for _, cuisine := range loser.CuisineTypes {
			affinity[cuisine] += loserCuisineWeight
		}
	}
	return affinity
}

// Recommender blends cuisine affinity with personal scores.
type Recommender struct {
	limit int
}

// NewRecommender creates a recommender returning at most limit results.
// A non-positive limit falls back to DefaultRecommendationLimit.
func NewRecommender(limit int) *Recommender {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	return &Recommender{limit: limit}
}

// Recommend scores every restaurant in catalog for the owner of ledger.
// personal maps restaurant id to the user's personal score; absent ids
// score 0.
func (r *Recommender) Recommend(catalog []models.Restaurant, ledger []models.Comparison, personal map[int64]float64) []models.Recommendation {
	byID := make(map[int64]*models.Restaurant, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	affinity := CuisineAffinity(ledger, byID)

	recs := make([]models.Recommendation, 0, len(catalog))
	for i := range catalog {
		var pref float64
		for _, cuisine := range catalog[i].CuisineTypes {
			pref += affinity[cuisine]
		}
		ps := personal[catalog[i].ID]
		recs = append(recs, models.Recommendation{
			Restaurant:      catalog[i],
			PreferenceScore: pref,
			PersonalScore:   ps,
			Score:           pref + ps,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Name < recs[j].Name
	})

	if len(recs) > r.limit {
		recs = recs[:r.limit]
	}
	return recs
}
