// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/forkrank/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(&Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSnapshot(userID string, last int64) *models.PersonalSnapshot {
	return &models.PersonalSnapshot{
		UserID: userID,
		Mark:   models.HighWaterMark{LastComparisonID: last, Comparisons: 2, Restaurants: 3},
		Entries: []models.PersonalRankingEntry{
			{Rank: 1, RestaurantID: 1, Name: "Bad Saint", CuisineTypes: []string{"Filipino"}, Score: 0.25, Sigma: 0.875, TotalChoices: 1},
			{Rank: 2, RestaurantID: 2, Name: "Maydan", CuisineTypes: []string{"Middle Eastern"}, Score: -0.25, Sigma: 0.875, TotalChoices: 1},
		},
		ComputedAt: time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC),
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"in memory", Config{InMemory: true}, false},
		{"disk", Config{Path: "/tmp/snapshots"}, false},
		{"no path", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	missing, err := store.Get(ctx, "alice")
	if err != nil || missing != nil {
		t.Fatalf("Get(missing) = %+v, %v; want nil, nil", missing, err)
	}

	want := testSnapshot("alice", 7)
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := store.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil after Put")
	}
	if got.Mark != want.Mark {
		t.Errorf("Mark = %+v, want %+v", got.Mark, want.Mark)
	}
	if len(got.Entries) != 2 || got.Entries[0].Name != "Bad Saint" || got.Entries[1].Score != -0.25 {
		t.Errorf("Entries = %+v", got.Entries)
	}
	if !got.ComputedAt.Equal(want.ComputedAt) {
		t.Errorf("ComputedAt = %v, want %v", got.ComputedAt, want.ComputedAt)
	}

	// Put replaces.
	if err := store.Put(ctx, testSnapshot("alice", 9)); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}
	got, _ = store.Get(ctx, "alice")
	if got.Mark.LastComparisonID != 9 {
		t.Errorf("LastComparisonID = %d, want 9", got.Mark.LastComparisonID)
	}

	other, _ := store.Get(ctx, "bob")
	if other != nil {
		t.Errorf("bob sees alice's snapshot: %+v", other)
	}
}

func TestStore_PutRejectsEmptyUser(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	err := store.Put(context.Background(), testSnapshot("", 1))
	if !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Put() error = %v, want ErrEmptyUserID", err)
	}
}

func TestStore_Invalidate(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	_ = store.Put(ctx, testSnapshot("alice", 1))
	_ = store.Put(ctx, testSnapshot("bob", 2))

	if err := store.Invalidate(ctx, "alice"); err != nil {
		t.Fatalf("Invalidate() failed: %v", err)
	}
	if got, _ := store.Get(ctx, "alice"); got != nil {
		t.Errorf("alice snapshot survived invalidation")
	}
	if got, _ := store.Get(ctx, "bob"); got == nil {
		t.Errorf("bob snapshot was dropped")
	}

	if err := store.Invalidate(ctx, "nobody"); err != nil {
		t.Errorf("Invalidate(missing) failed: %v", err)
	}

	count, err := store.Count()
	if err != nil || count != 1 {
		t.Errorf("Count() = %d, %v; want 1", count, err)
	}
}

func TestStore_RunGCInMemory(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if err := store.RunGC(0.5); err != nil {
		t.Errorf("RunGC() failed: %v", err)
	}
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	store, err := Open(&Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	ctx := context.Background()
	if _, err := store.Get(ctx, "alice"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after close = %v, want ErrClosed", err)
	}
	if err := store.Put(ctx, testSnapshot("alice", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Put() after close = %v, want ErrClosed", err)
	}
	if err := store.Invalidate(ctx, "alice"); !errors.Is(err, ErrClosed) {
		t.Errorf("Invalidate() after close = %v, want ErrClosed", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(&Config{Path: dir})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Put(ctx, testSnapshot("alice", 4)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := Open(&Config{Path: dir})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "alice")
	if err != nil || got == nil || got.Mark.LastComparisonID != 4 {
		t.Errorf("Get() after reopen = %+v, %v", got, err)
	}
}
