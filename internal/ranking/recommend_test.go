// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"testing"

	"github.com/tomtom215/forkrank/internal/models"
)

func recommendationCatalog() []models.Restaurant {
	return []models.Restaurant{
		restaurant(1, "Alpha", "italian"),
		restaurant(2, "Bravo", "thai"),
		restaurant(3, "Charlie", "italian", "pizza"),
		restaurant(4, "Delta", "mexican"),
		restaurant(5, "Echo", "japanese"),
		restaurant(6, "Foxtrot", "indian"),
		restaurant(7, "Golf", "italian"),
	}
}

func TestCuisineAffinity(t *testing.T) {
	t.Parallel()

	catalog := recommendationCatalog()
	byID := make(map[int64]*models.Restaurant)
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	affinity := CuisineAffinity([]models.Comparison{
		choice(1, "u", 3, 2),
		choice(2, "u", 1, 2),
		notTried(3, "u"),
		choice(4, "u", 99, 1),
	}, byID)

	want := map[string]float64{"italian": 2, "pizza": 1, "thai": -1}
	if len(affinity) != len(want) {
		t.Fatalf("affinity = %v, want %v", affinity, want)
	}
	for cuisine, v := range want {
		if affinity[cuisine] != v {
			t.Errorf("affinity[%s] = %v, want %v", cuisine, affinity[cuisine], v)
		}
	}
}

func TestRecommender_Recommend(t *testing.T) {
	t.Parallel()

	r := NewRecommender(DefaultRecommendationLimit)
	recs := r.Recommend(
		recommendationCatalog(),
		[]models.Comparison{choice(1, "u", 1, 2)},
		map[int64]float64{1: 0.25, 2: -0.25},
	)

	want := []string{"Alpha", "Charlie", "Golf", "Delta", "Echo"}
	if len(recs) != len(want) {
		t.Fatalf("len = %d, want %d", len(recs), len(want))
	}
	for i, rec := range recs {
		if rec.Name != want[i] {
			t.Errorf("position %d = %s, want %s", i, rec.Name, want[i])
		}
	}

	top := recs[0]
	if top.PreferenceScore != 1 || top.PersonalScore != 0.25 || top.Score != 1.25 {
		t.Errorf("top = %+v, want preference 1 + personal 0.25", top)
	}
}

func TestRecommender_LengthAndOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   int
		catalog []models.Restaurant
		want    int
	}{
		{"default limit", 0, recommendationCatalog(), DefaultRecommendationLimit},
		{"custom limit", 3, recommendationCatalog(), 3},
		{"small catalog", 5, recommendationCatalog()[:2], 2},
		{"empty catalog", 5, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recs := NewRecommender(tt.limit).Recommend(tt.catalog, []models.Comparison{choice(1, "u", 2, 1)}, nil)
			if len(recs) != tt.want {
				t.Fatalf("len = %d, want %d", len(recs), tt.want)
			}
			for i := 1; i < len(recs); i++ {
				if recs[i].Score > recs[i-1].Score {
					t.Errorf("scores increase at %d: %v > %v", i, recs[i].Score, recs[i-1].Score)
				}
			}
		})
	}
}

func TestRecommender_IncludesTriedRestaurants(t *testing.T) {
	t.Parallel()

	// Both restaurants in the only choice are tried; the winner still ranks first.
	recs := NewRecommender(1).Recommend(
		recommendationCatalog(),
		[]models.Comparison{choice(1, "u", 3, 5)},
		map[int64]float64{3: 0.25, 5: -0.25},
	)
	if len(recs) != 1 || recs[0].ID != 3 {
		t.Fatalf("recs = %+v, want the tried winner Charlie", recs)
	}
}
