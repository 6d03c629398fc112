// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package database

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/models"
	"github.com/tomtom215/forkrank/internal/ranking"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReplaceGlobalRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := threeRestaurants(t, db)

	if _, err := db.CreateComparison(ctx, &models.Comparison{
		WinnerID: ptr(seeded[2].ID), LoserID: ptr(seeded[0].ID), UserID: "alice",
	}); err != nil {
		t.Fatalf("CreateComparison() failed: %v", err)
	}

	var sawLedger int
	err := db.ReplaceGlobalRatings(ctx, func(restaurants []models.Restaurant, ledger []models.Comparison) (map[int64]crowdbt.Rating, error) {
		sawLedger = len(ledger)
		out := make(map[int64]crowdbt.Rating, len(restaurants))
		for _, r := range restaurants {
			out[r.ID] = crowdbt.Rating{Value: float64(r.ID), Sigma: 0.5}
		}
		return out, nil
	})
	if err != nil {
		t.Fatalf("ReplaceGlobalRatings() failed: %v", err)
	}
	if sawLedger != 1 {
		t.Errorf("replay saw %d comparisons, want 1", sawLedger)
	}

	restaurants, _ := db.GetRestaurants(ctx)
	for _, r := range restaurants {
		if r.Rating != float64(r.ID) || r.Sigma != 0.5 {
			t.Errorf("restaurant %d = (%v, %v)", r.ID, r.Rating, r.Sigma)
		}
	}
}

func TestReplaceGlobalRatings_ReplayErrorWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := threeRestaurants(t, db)

	if err := db.UpdateRestaurantRating(ctx, seeded[0].ID, crowdbt.Rating{Value: 0.25, Sigma: 0.875}); err != nil {
		t.Fatalf("UpdateRestaurantRating() failed: %v", err)
	}

	wantErr := &ranking.ComputationError{Scope: ranking.ScopeGlobal, ComparisonID: 7, RestaurantID: seeded[0].ID}
	err := db.ReplaceGlobalRatings(ctx, func(_ []models.Restaurant, _ []models.Comparison) (map[int64]crowdbt.Rating, error) {
		return nil, wantErr
	})

	var compErr *ranking.ComputationError
	if !errors.As(err, &compErr) || compErr.ComparisonID != 7 {
		t.Fatalf("ReplaceGlobalRatings() error = %v, want the replay's ComputationError", err)
	}

	r, _ := db.GetRestaurantByID(ctx, seeded[0].ID)
	if r.Rating != 0.25 || r.Sigma != 0.875 {
		t.Errorf("rating changed after failed replay: (%v, %v)", r.Rating, r.Sigma)
	}
}

func TestReplacePersonalRankings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := threeRestaurants(t, db)

	// A stale row for a restaurant the replay no longer produces.
	if _, err := db.UpsertPersonalRanking(ctx, "alice", seeded[2].ID, crowdbt.Initial(3)); err != nil {
		t.Fatalf("UpsertPersonalRanking() failed: %v", err)
	}
	// A row that is kept and overwritten.
	if _, err := db.UpsertPersonalRanking(ctx, "alice", seeded[0].ID, crowdbt.Initial(9)); err != nil {
		t.Fatalf("UpsertPersonalRanking() failed: %v", err)
	}
	// Another user's row must survive.
	if _, err := db.UpsertPersonalRanking(ctx, "bob", seeded[2].ID, crowdbt.Initial(5)); err != nil {
		t.Fatalf("UpsertPersonalRanking() failed: %v", err)
	}
	if _, err := db.CreateComparison(ctx, &models.Comparison{
		WinnerID: ptr(seeded[0].ID), LoserID: ptr(seeded[1].ID), UserID: "alice",
	}); err != nil {
		t.Fatalf("CreateComparison() failed: %v", err)
	}
	if _, err := db.CreateComparison(ctx, &models.Comparison{
		WinnerID: ptr(seeded[1].ID), LoserID: ptr(seeded[2].ID), UserID: "bob",
	}); err != nil {
		t.Fatalf("CreateComparison() failed: %v", err)
	}

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := db.ReplacePersonalRankings(ctx, "alice", func(_ []models.Restaurant, ledger []models.Comparison) ([]models.PersonalRanking, error) {
		for _, c := range ledger {
			if c.UserID != "alice" {
				t.Errorf("replay received %s's comparison", c.UserID)
			}
		}
		return []models.PersonalRanking{
			{UserID: "alice", RestaurantID: seeded[0].ID, Score: 0.25, Sigma: 0.875, TotalChoices: 1, UpdatedAt: stamp},
			{UserID: "alice", RestaurantID: seeded[1].ID, Score: -0.25, Sigma: 0.875, TotalChoices: 1, UpdatedAt: stamp},
		}, nil
	})
	if err != nil {
		t.Fatalf("ReplacePersonalRankings() failed: %v", err)
	}

	rows, _ := db.GetPersonalRankings(ctx, "alice")
	if len(rows) != 2 {
		t.Fatalf("alice has %d rows, want 2", len(rows))
	}
	if rows[0].RestaurantID != seeded[0].ID || rows[0].Score != 0.25 || rows[0].TotalChoices != 1 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if !rows[0].UpdatedAt.Equal(stamp) {
		t.Errorf("UpdatedAt = %v, want %v", rows[0].UpdatedAt, stamp)
	}
	if rows[1].RestaurantID != seeded[1].ID || rows[1].Score != -0.25 {
		t.Errorf("row 1 = %+v", rows[1])
	}

	bob, _ := db.GetPersonalRankings(ctx, "bob")
	if len(bob) != 1 || bob[0].Score != 5 {
		t.Errorf("bob rows = %+v", bob)
	}

	// An empty replay clears the user.
	err = db.ReplacePersonalRankings(ctx, "alice", func(_ []models.Restaurant, _ []models.Comparison) ([]models.PersonalRanking, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("empty ReplacePersonalRankings() failed: %v", err)
	}
	rows, _ = db.GetPersonalRankings(ctx, "alice")
	if len(rows) != 0 {
		t.Errorf("alice has %d rows after empty replay", len(rows))
	}
}

func TestReplacePersonalRankings_ReplayErrorWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := threeRestaurants(t, db)

	if _, err := db.UpsertPersonalRanking(ctx, "alice", seeded[0].ID, crowdbt.Initial(2)); err != nil {
		t.Fatalf("UpsertPersonalRanking() failed: %v", err)
	}

	err := db.ReplacePersonalRankings(ctx, "alice", func(_ []models.Restaurant, _ []models.Comparison) ([]models.PersonalRanking, error) {
		return nil, &ranking.NotFoundError{Kind: "restaurant", ID: 404}
	})
	if !errors.Is(err, ranking.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	rows, _ := db.GetPersonalRankings(ctx, "alice")
	if len(rows) != 1 || rows[0].Score != 2 {
		t.Errorf("rows changed after failed replay: %+v", rows)
	}
}

// TestService_OnDuckDB runs the ranking service end to end over the DuckDB
// store.
func TestService_OnDuckDB(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := threeRestaurants(t, db)

	cfg := ranking.DefaultConfig()
	cfg.RandomSeed = 7
	svc, err := ranking.NewService(db, cfg)
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}

	a, b, c := seeded[0].ID, seeded[1].ID, seeded[2].ID
	if _, err := svc.RecordComparison(ctx, ranking.ComparisonInput{WinnerID: &a, LoserID: &b, UserID: "alice"}); err != nil {
		t.Fatalf("RecordComparison() failed: %v", err)
	}

	winner, _ := db.GetRestaurantByID(ctx, a)
	loser, _ := db.GetRestaurantByID(ctx, b)
	if !approx(winner.Rating, 0.25) || !approx(loser.Rating, -0.25) {
		t.Errorf("ratings = %v / %v, want 0.25 / -0.25", winner.Rating, loser.Rating)
	}
	if !approx(winner.Sigma, 0.875) || !approx(loser.Sigma, 0.875) {
		t.Errorf("sigmas = %v / %v, want 0.875", winner.Sigma, loser.Sigma)
	}

	tried, _ := db.GetTriedRestaurantIDs(ctx, "alice")
	if len(tried) != 2 {
		t.Errorf("tried = %v, want both restaurants", tried)
	}

	if _, err := svc.RecordComparison(ctx, ranking.ComparisonInput{UserID: "alice", NotTried: true, PresentedIDs: []int64{b, c}}); err != nil {
		t.Fatalf("RecordComparison(not tried) failed: %v", err)
	}

	var wg sync.WaitGroup
	pairs := [][2]int64{{c, a}, {b, c}, {a, c}, {c, b}}
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, w, l int64) {
			defer wg.Done()
			user := "bob"
			if i%2 == 0 {
				user = "alice"
			}
			if _, err := svc.RecordComparison(ctx, ranking.ComparisonInput{WinnerID: &w, LoserID: &l, UserID: user}); err != nil {
				t.Errorf("concurrent RecordComparison() failed: %v", err)
			}
		}(i, p[0], p[1])
	}
	wg.Wait()

	incremental, _ := db.GetRestaurants(ctx)
	if err := svc.RecomputeGlobal(ctx); err != nil {
		t.Fatalf("RecomputeGlobal() failed: %v", err)
	}
	replayed, _ := db.GetRestaurants(ctx)
	for i := range incremental {
		if !approx(incremental[i].Rating, replayed[i].Rating) || !approx(incremental[i].Sigma, replayed[i].Sigma) {
			t.Errorf("restaurant %d: incremental (%v, %v) replay (%v, %v)", incremental[i].ID,
				incremental[i].Rating, incremental[i].Sigma, replayed[i].Rating, replayed[i].Sigma)
		}
	}

	before, _ := db.GetPersonalRankings(ctx, "alice")
	entries, err := svc.RecomputePersonal(ctx, "alice")
	if err != nil {
		t.Fatalf("RecomputePersonal() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("personal entries = %d, want the whole catalog", len(entries))
	}
	after, _ := db.GetPersonalRankings(ctx, "alice")
	if len(before) != len(after) {
		t.Fatalf("alice rows: %d incremental, %d replayed", len(before), len(after))
	}
	for i := range before {
		if !approx(before[i].Score, after[i].Score) || before[i].TotalChoices != after[i].TotalChoices {
			t.Errorf("alice restaurant %d: incremental %+v replay %+v", before[i].RestaurantID, before[i], after[i])
		}
	}

	_, err = svc.RecordComparison(ctx, ranking.ComparisonInput{WinnerID: &a, LoserID: ptr(9999), UserID: "alice"})
	if !errors.Is(err, ranking.ErrNotFound) {
		t.Errorf("unknown loser error = %v, want ErrNotFound", err)
	}
	mark, _ := db.GetHighWaterMark(ctx, "alice")
	if mark.Comparisons != 4 {
		t.Errorf("alice comparisons = %d, want 4 (rejected comparison must not persist)", mark.Comparisons)
	}
}
