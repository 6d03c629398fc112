// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/models"
)

// ScoreTieEpsilon is the distance under which two personal scores are
// treated as equal and ordered by name.
const ScoreTieEpsilon = 1e-4

// PersonalAggregator rebuilds one user's ranking from that user's ledger.
type PersonalAggregator struct {
	params   crowdbt.Params
	baseline float64
}

// NewPersonalAggregator creates an aggregator whose restaurants start at
// baseline with full uncertainty.
func NewPersonalAggregator(params crowdbt.Params, baseline float64) *PersonalAggregator {
	return &PersonalAggregator{params: params, baseline: baseline}
}

// Baseline returns the starting score of an unrated restaurant.
func (a *PersonalAggregator) Baseline() float64 {
	return a.baseline
}

// Replay returns an entry for every restaurant in the catalog, ranked from 1.
// Comparisons belonging to other users are ignored, as are not-tried entries.
func (a *PersonalAggregator) Replay(userID string, restaurants []models.Restaurant, ledger []models.Comparison) ([]models.PersonalRankingEntry, error) {
	states := make(map[int64]crowdbt.Rating, len(restaurants))
	for i := range restaurants {
		states[restaurants[i].ID] = crowdbt.Initial(a.baseline)
	}

	mine := make([]models.Comparison, 0, len(ledger))
	choices := make(map[int64]int)
	for i := range ledger {
		c := &ledger[i]
		if c.UserID != userID {
			continue
		}
		mine = append(mine, *c)
		if c.IsChoice() {
			choices[*c.WinnerID]++
			choices[*c.LoserID]++
		}
	}

	if err := replay(a.params, ScopePersonal, states, mine); err != nil {
		return nil, err
	}

	entries := make([]models.PersonalRankingEntry, 0, len(restaurants))
	for i := range restaurants {
		r := &restaurants[i]
		st := states[r.ID]
		entries = append(entries, models.PersonalRankingEntry{
			RestaurantID: r.ID,
			Name:         r.Name,
			Area:         r.Area,
			CuisineTypes: r.CuisineTypes,
			Score:        st.Value,
			Sigma:        st.Sigma,
			TotalChoices: choices[r.ID],
		})
	}

	SortPersonalEntries(entries)
	return entries, nil
}

// Rows converts replayed entries into the rows persisted for userID.
// Restaurants the user never chose between have no row.
func (a *PersonalAggregator) Rows(userID string, entries []models.PersonalRankingEntry, now time.Time) []models.PersonalRanking {
	rows := make([]models.PersonalRanking, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.TotalChoices == 0 {
			continue
		}
		rows = append(rows, models.PersonalRanking{
			UserID:       userID,
			RestaurantID: e.RestaurantID,
			Score:        e.Score,
			Sigma:        e.Sigma,
			TotalChoices: e.TotalChoices,
			UpdatedAt:    now,
		})
	}
	return rows
}

// SortPersonalEntries orders entries by score descending and assigns ranks.
// Runs of scores that sit within ScoreTieEpsilon of the run's leader are
// ordered by name instead.
func SortPersonalEntries(entries []models.PersonalRankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})

	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[start].Score-entries[end].Score < ScoreTieEpsilon {
			end++
		}
		run := entries[start:end]
		sort.SliceStable(run, func(i, j int) bool { return run[i].Name < run[j].Name })
		start = end
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// FilterPersonalEntries keeps the entries in area, or serving cuisine when
// area is empty, matching case-insensitively like FilterRestaurants. With
// neither set it returns entries unchanged. Ranks keep their position in the
// full ranking.
func FilterPersonalEntries(entries []models.PersonalRankingEntry, area, cuisine string) []models.PersonalRankingEntry {
	area, cuisine = strings.TrimSpace(area), strings.TrimSpace(cuisine)
	if area == "" && cuisine == "" {
		return entries
	}

	out := make([]models.PersonalRankingEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if area != "" {
			if strings.EqualFold(e.Area, area) {
				out = append(out, *e)
			}
			continue
		}
		for _, c := range e.CuisineTypes {
			if strings.EqualFold(c, cuisine) {
				out = append(out, *e)
				break
			}
		}
	}
	return out
}
