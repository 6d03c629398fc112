// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/models"
)

// memStore implements Store in memory for testing.
type memStore struct {
	mu          sync.Mutex
	restaurants map[int64]models.Restaurant
	comparisons []models.Comparison
	tried       map[string]map[int64]struct{}
	personal    map[string]map[int64]models.PersonalRanking
	nextID      int64
	clock       time.Time

	createErr   error
	updateErr   error
	triedErr    error
	replayCalls int
}

func newMemStore(restaurants ...models.Restaurant) *memStore {
	s := &memStore{
		restaurants: make(map[int64]models.Restaurant),
		tried:       make(map[string]map[int64]struct{}),
		personal:    make(map[string]map[int64]models.PersonalRanking),
		clock:       time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, r := range restaurants {
		if r.Sigma == 0 {
			r.Sigma = crowdbt.InitialSigma
		}
		s.restaurants[r.ID] = r
	}
	return s
}

func restaurant(id int64, name string, cuisines ...string) models.Restaurant {
	return models.Restaurant{ID: id, Name: name, Area: "Downtown", CuisineTypes: cuisines, Sigma: 1}
}

func (s *memStore) catalog() []models.Restaurant {
	out := make([]models.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) GetRestaurants(_ context.Context) ([]models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog(), nil
}

func (s *memStore) GetRestaurantByID(_ context.Context, id int64) (*models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memStore) GetRestaurantsByArea(_ context.Context, area string) ([]models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Restaurant
	for _, r := range s.catalog() {
		if strings.EqualFold(r.Area, area) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) GetRestaurantsByCuisine(_ context.Context, cuisine string) ([]models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Restaurant
	for _, r := range s.catalog() {
		if r.HasCuisine(cuisine) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) UpdateRestaurantRating(_ context.Context, id int64, rating crowdbt.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	r := s.restaurants[id]
	r.Rating, r.Sigma = rating.Value, rating.Sigma
	s.restaurants[id] = r
	return nil
}

func (s *memStore) CreateComparison(_ context.Context, c *models.Comparison) (*models.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	stored := *c
	stored.ID = s.nextID
	stored.CreatedAt = s.clock
	s.comparisons = append(s.comparisons, stored)
	return &stored, nil
}

func (s *memStore) GetComparisons(_ context.Context, userID string) ([]models.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comparison
	for _, c := range s.comparisons {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) GetAllComparisons(_ context.Context) ([]models.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comparison(nil), s.comparisons...), nil
}

func (s *memStore) GetHighWaterMark(_ context.Context, userID string) (models.HighWaterMark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark := models.HighWaterMark{Restaurants: len(s.restaurants)}
	for _, c := range s.comparisons {
		if c.UserID != userID {
			continue
		}
		mark.Comparisons++
		if c.ID > mark.LastComparisonID {
			mark.LastComparisonID = c.ID
		}
	}
	return mark, nil
}

func (s *memStore) MarkRestaurantAsTried(_ context.Context, userID string, restaurantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.triedErr != nil {
		return s.triedErr
	}
	if s.tried[userID] == nil {
		s.tried[userID] = make(map[int64]struct{})
	}
	s.tried[userID][restaurantID] = struct{}{}
	return nil
}

func (s *memStore) GetTriedRestaurantIDs(_ context.Context, userID string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id := range s.tried[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) GetPersonalRanking(_ context.Context, userID string, restaurantID int64) (*models.PersonalRanking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.personal[userID][restaurantID]
	if !ok {
		return nil, nil
	}
	return &pr, nil
}

func (s *memStore) UpsertPersonalRanking(_ context.Context, userID string, restaurantID int64, initial crowdbt.Rating) (*models.PersonalRanking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.personal[userID] == nil {
		s.personal[userID] = make(map[int64]models.PersonalRanking)
	}
	pr, ok := s.personal[userID][restaurantID]
	if !ok {
		pr = models.PersonalRanking{
			UserID:       userID,
			RestaurantID: restaurantID,
			Score:        initial.Value,
			Sigma:        initial.Sigma,
			UpdatedAt:    s.clock,
		}
		s.personal[userID][restaurantID] = pr
	}
	return &pr, nil
}

func (s *memStore) UpdatePersonalRanking(_ context.Context, pr *models.PersonalRanking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.personal[pr.UserID] == nil {
		s.personal[pr.UserID] = make(map[int64]models.PersonalRanking)
	}
	s.personal[pr.UserID][pr.RestaurantID] = *pr
	return nil
}

func (s *memStore) GetPersonalRankings(_ context.Context, userID string) ([]models.PersonalRanking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PersonalRanking
	for _, pr := range s.personal[userID] {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RestaurantID < out[j].RestaurantID })
	return out, nil
}

func (s *memStore) ReplaceGlobalRatings(_ context.Context, replay GlobalReplayFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replayCalls++
	ratings, err := replay(s.catalog(), append([]models.Comparison(nil), s.comparisons...))
	if err != nil {
		return err
	}
	for id, rating := range ratings {
		r := s.restaurants[id]
		r.Rating, r.Sigma = rating.Value, rating.Sigma
		s.restaurants[id] = r
	}
	return nil
}

func (s *memStore) ReplacePersonalRankings(_ context.Context, userID string, replay PersonalReplayFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replayCalls++
	var mine []models.Comparison
	for _, c := range s.comparisons {
		if c.UserID == userID {
			mine = append(mine, c)
		}
	}
	rows, err := replay(s.catalog(), mine)
	if err != nil {
		return err
	}
	replaced := make(map[int64]models.PersonalRanking, len(rows))
	for _, pr := range rows {
		replaced[pr.RestaurantID] = pr
	}
	s.personal[userID] = replaced
	return nil
}

// memSnapshots implements SnapshotCache in memory for testing.
type memSnapshots struct {
	mu          sync.Mutex
	snaps       map[string]models.PersonalSnapshot
	invalidated []string
	gets        int
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{snaps: make(map[string]models.PersonalSnapshot)}
}

func (m *memSnapshots) Get(_ context.Context, userID string) (*models.PersonalSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	snap, ok := m.snaps[userID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memSnapshots) Put(_ context.Context, snap *models.PersonalSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.UserID] = *snap
	return nil
}

func (m *memSnapshots) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, userID)
	delete(m.snaps, userID)
	return nil
}

// recordingPublisher implements EventPublisher for testing.
type recordingPublisher struct {
	mu     sync.Mutex
	events []int64
	err    error
}

func (p *recordingPublisher) PublishComparisonRecorded(_ context.Context, c *models.Comparison) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, c.ID)
	return p.err
}

func id64(v int64) *int64 { return &v }
