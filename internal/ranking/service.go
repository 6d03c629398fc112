// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

// AnonymousUserID is used when a caller does not identify the user.
const AnonymousUserID = "anonymous"

// snapshotCacheType labels personal snapshot lookups in metrics.
const snapshotCacheType = "personal_snapshot"

// Config holds the tunable parameters of the ranking core.
type Config struct {
	Params                  crowdbt.Params
	PersonalBaseline        float64
	ExploreTriedProbability float64
	RecommendationLimit     int

	// RandomSeed seeds pair selection. Zero seeds from the clock.
	RandomSeed int64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Params:                  crowdbt.DefaultParams(),
		PersonalBaseline:        0,
		ExploreTriedProbability: DefaultExploreTriedProbability,
		RecommendationLimit:     DefaultRecommendationLimit,
	}
}

// Service is the entry point to the ranking core. It records comparisons,
// keeps the global and personal ratings current, and answers ranking reads.
//
// Rating updates are serialized per restaurant (global) and per
// user-restaurant pair (personal). A full replay holds every key in its
// scope, so an in-flight comparison is either fully applied before the
// replay reads the ledger or applied after it, never both.
type Service struct {
	store    Store
	params   crowdbt.Params
	ledger   *Ledger
	selector *Selector
	global   *GlobalAggregator
	personal *PersonalAggregator
	recs     *Recommender
	locks    *KeyLock

	mu        sync.RWMutex
	snapshots SnapshotCache
	publisher EventPublisher
}

// NewService creates a Service over store.
func NewService(store Store, cfg Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ranking: store is required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.ExploreTriedProbability < 0 || cfg.ExploreTriedProbability > 1 {
		return nil, fmt.Errorf("ranking: explore tried probability must be in [0, 1], got %v", cfg.ExploreTriedProbability)
	}

	return &Service{
		store:    store,
		params:   cfg.Params,
		ledger:   NewLedger(store),
		selector: NewSelector(cfg.ExploreTriedProbability, cfg.RandomSeed),
		global:   NewGlobalAggregator(cfg.Params),
		personal: NewPersonalAggregator(cfg.Params, cfg.PersonalBaseline),
		recs:     NewRecommender(cfg.RecommendationLimit),
		locks:    NewKeyLock(),
	}, nil
}

// SetSnapshotCache enables snapshot-backed personal reads.
func (s *Service) SetSnapshotCache(cache SnapshotCache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = cache
}

// SetEventPublisher announces every recorded comparison through p.
func (s *Service) SetEventPublisher(p EventPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

func (s *Service) snapshotCache() SnapshotCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots
}

func (s *Service) eventPublisher() EventPublisher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.publisher
}

func globalKey(restaurantID int64) string {
	return "r:" + strconv.FormatInt(restaurantID, 10)
}

func personalKey(userID string, restaurantID int64) string {
	return "p:" + userID + ":" + strconv.FormatInt(restaurantID, 10)
}

// Restaurants returns the catalog ordered by rating descending, ties by name.
func (s *Service) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := s.store.GetRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	SortByRating(restaurants)
	return restaurants, nil
}

// FilterRestaurants filters the catalog by area, or by cuisine when area is
// empty. With neither set it returns the whole catalog.
func (s *Service) FilterRestaurants(ctx context.Context, area, cuisine string) ([]models.Restaurant, error) {
	area, cuisine = strings.TrimSpace(area), strings.TrimSpace(cuisine)

	var (
		restaurants []models.Restaurant
		err         error
	)
	switch {
	case area != "":
		restaurants, err = s.store.GetRestaurantsByArea(ctx, area)
	case cuisine != "":
		restaurants, err = s.store.GetRestaurantsByCuisine(ctx, cuisine)
	default:
		restaurants, err = s.store.GetRestaurants(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("filter restaurants: %w", err)
	}
	SortByRating(restaurants)
	return restaurants, nil
}

// Restaurant returns one restaurant or a NotFoundError.
func (s *Service) Restaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	r, err := s.store.GetRestaurantByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	if r == nil {
		return nil, restaurantNotFound(id)
	}
	return r, nil
}

// RandomPair selects the next pair to show userID.
func (s *Service) RandomPair(ctx context.Context, userID string) (*models.RestaurantPair, error) {
	catalog, err := s.store.GetRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	triedIDs, err := s.store.GetTriedRestaurantIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tried restaurants: %w", err)
	}

	tried := make(map[int64]struct{}, len(triedIDs))
	for _, id := range triedIDs {
		tried[id] = struct{}{}
	}

	pair, err := s.selector.Select(catalog, tried)
	if err != nil {
		return nil, err
	}
	metrics.RecordPairSelected(pair.Mode)
	return pair, nil
}

// MarkTried records that userID has eaten at every restaurant in ids.
// All ids are checked before any mark is written.
func (s *Service) MarkTried(ctx context.Context, userID string, ids []int64) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if err := s.ledger.requireRestaurants(ctx, ids); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.store.MarkRestaurantAsTried(ctx, userID, id); err != nil {
			return fmt.Errorf("mark restaurant %d tried: %w", id, err)
		}
	}
	return nil
}

// RecordComparison appends a comparison and, for a choice, applies it to the
// global and the user's personal ratings.
//
// Errors before the append return a nil comparison. Once the comparison is
// in the ledger, a failed follow-up write returns the stored comparison
// together with a *PartialWriteError.
func (s *Service) RecordComparison(ctx context.Context, in ComparisonInput) (*models.Comparison, error) {
	// Shape errors are reported before any lock is taken.
	if err := in.Validate(); err != nil {
		metrics.RecordComparisonRejected("validation")
		return nil, err
	}
	userID := strings.TrimSpace(in.UserID)

	if !in.NotTried {
		w, l := *in.WinnerID, *in.LoserID
		unlock := s.locks.Lock(globalKey(w), globalKey(l), personalKey(userID, w), personalKey(userID, l))
		defer unlock()
	}

	c, err := s.ledger.Record(ctx, in)
	if c == nil {
		return nil, err
	}

	// From here on the comparison is committed. Follow-up failures are
	// reported with the stored comparison and never roll it back.
	followUpErr := err
	if followUpErr == nil && c.IsChoice() {
		if followUpErr = s.applyGlobal(ctx, c); followUpErr == nil {
			followUpErr = s.applyPersonal(ctx, c)
		}
	}

	if cache := s.snapshotCache(); cache != nil {
		if err := cache.Invalidate(ctx, c.UserID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", c.UserID).Msg("Failed to invalidate personal snapshot")
		}
	}

	// Also published after a failed update; the event-driven replay
	// rebuilds the global ratings.
	if pub := s.eventPublisher(); pub != nil {
		if err := pub.PublishComparisonRecorded(ctx, c); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("comparison_id", c.ID).Msg("Failed to publish comparison event")
		}
	}

	if followUpErr != nil {
		logging.Ctx(ctx).Error().Err(followUpErr).Int64("comparison_id", c.ID).Msg("Comparison recorded but ratings not updated")
		return c, &PartialWriteError{ComparisonID: c.ID, Err: followUpErr}
	}

	logging.Ctx(ctx).Debug().
		Int64("comparison_id", c.ID).
		Str("user_id", c.UserID).
		Bool("not_tried", c.NotTried).
		Msg("Comparison recorded")

	return c, nil
}

// applyGlobal runs one incremental update of the consensus ratings.
// Caller holds the global keys of both restaurants.
func (s *Service) applyGlobal(ctx context.Context, c *models.Comparison) error {
	winner, err := s.Restaurant(ctx, *c.WinnerID)
	if err != nil {
		return err
	}
	loser, err := s.Restaurant(ctx, *c.LoserID)
	if err != nil {
		return err
	}

	newWinner, newLoser := s.params.Update(
		crowdbt.Rating{Value: winner.Rating, Sigma: winner.Sigma},
		crowdbt.Rating{Value: loser.Rating, Sigma: loser.Sigma},
	)
	if err := checkFinite(ScopeGlobal, c, newWinner, newLoser); err != nil {
		metrics.RecordRatingUpdate(ScopeGlobal, err)
		return err
	}

	if err := s.store.UpdateRestaurantRating(ctx, winner.ID, newWinner); err != nil {
		return fmt.Errorf("update rating of restaurant %d: %w", winner.ID, err)
	}
	if err := s.store.UpdateRestaurantRating(ctx, loser.ID, newLoser); err != nil {
		return fmt.Errorf("update rating of restaurant %d: %w", loser.ID, err)
	}
	metrics.RecordRatingUpdate(ScopeGlobal, nil)
	return nil
}

// applyPersonal runs one incremental update of the user's personal scores.
// Caller holds the personal keys of both restaurants.
func (s *Service) applyPersonal(ctx context.Context, c *models.Comparison) error {
	initial := crowdbt.Initial(s.personal.Baseline())

	winner, err := s.store.UpsertPersonalRanking(ctx, c.UserID, *c.WinnerID, initial)
	if err != nil {
		return fmt.Errorf("upsert personal ranking: %w", err)
	}
	loser, err := s.store.UpsertPersonalRanking(ctx, c.UserID, *c.LoserID, initial)
	if err != nil {
		return fmt.Errorf("upsert personal ranking: %w", err)
	}

	newWinner, newLoser := s.params.Update(
		crowdbt.Rating{Value: winner.Score, Sigma: winner.Sigma},
		crowdbt.Rating{Value: loser.Score, Sigma: loser.Sigma},
	)
	if err := checkFinite(ScopePersonal, c, newWinner, newLoser); err != nil {
		metrics.RecordRatingUpdate(ScopePersonal, err)
		return err
	}

	now := time.Now().UTC()
	for _, upd := range []struct {
		row    *models.PersonalRanking
		rating crowdbt.Rating
	}{{winner, newWinner}, {loser, newLoser}} {
		upd.row.Score = upd.rating.Value
		upd.row.Sigma = upd.rating.Sigma
		upd.row.TotalChoices++
		upd.row.UpdatedAt = now
		if err := s.store.UpdatePersonalRanking(ctx, upd.row); err != nil {
			return fmt.Errorf("update personal ranking of restaurant %d: %w", upd.row.RestaurantID, err)
		}
	}
	metrics.RecordRatingUpdate(ScopePersonal, nil)
	return nil
}

func checkFinite(scope string, c *models.Comparison, winner, loser crowdbt.Rating) error {
	if !winner.Finite() {
		return &ComputationError{Scope: scope, ComparisonID: c.ID, RestaurantID: *c.WinnerID}
	}
	if !loser.Finite() {
		return &ComputationError{Scope: scope, ComparisonID: c.ID, RestaurantID: *c.LoserID}
	}
	return nil
}

// Comparisons returns the user's ledger, or the whole ledger when userID is
// empty.
func (s *Service) Comparisons(ctx context.Context, userID string) ([]models.Comparison, error) {
	if userID == "" {
		return s.ledger.ListAll(ctx)
	}
	return s.ledger.ListByUser(ctx, userID)
}

// GlobalRankings returns the catalog with rank numbers.
func (s *Service) GlobalRankings(ctx context.Context) ([]models.RankedRestaurant, error) {
	restaurants, err := s.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return Ranked(restaurants), nil
}

// RecomputeGlobal replays the full ledger and replaces every restaurant's
// rating. On error the persisted ratings are left untouched.
func (s *Service) RecomputeGlobal(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordRecompute(ScopeGlobal, time.Since(start), err) }()

	catalog, err := s.store.GetRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}
	keys := make([]string, len(catalog))
	for i := range catalog {
		keys[i] = globalKey(catalog[i].ID)
	}
	unlock := s.locks.Lock(keys...)
	defer unlock()

	err = s.store.ReplaceGlobalRatings(ctx, func(restaurants []models.Restaurant, ledger []models.Comparison) (map[int64]crowdbt.Rating, error) {
		SortLedger(ledger)
		return s.global.Replay(restaurants, ledger)
	})
	if err != nil {
		return fmt.Errorf("recompute global ratings: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int("restaurants", len(catalog)).
		Dur("duration", time.Since(start)).
		Msg("Global ratings recomputed")
	return nil
}

// RecomputePersonal replays userID's ledger, persists the result and
// refreshes the user's snapshot. The returned entries cover the whole
// catalog.
func (s *Service) RecomputePersonal(ctx context.Context, userID string) (entries []models.PersonalRankingEntry, err error) {
	start := time.Now()
	defer func() { metrics.RecordRecompute(ScopePersonal, time.Since(start), err) }()

	catalog, err := s.store.GetRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	keys := make([]string, len(catalog))
	for i := range catalog {
		keys[i] = personalKey(userID, catalog[i].ID)
	}
	unlock := s.locks.Lock(keys...)
	defer unlock()

	mark, err := s.store.GetHighWaterMark(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read high-water mark: %w", err)
	}

	now := time.Now().UTC()
	err = s.store.ReplacePersonalRankings(ctx, userID, func(restaurants []models.Restaurant, ledger []models.Comparison) ([]models.PersonalRanking, error) {
		SortLedger(ledger)
		replayed, rerr := s.personal.Replay(userID, restaurants, ledger)
		if rerr != nil {
			return nil, rerr
		}
		entries = replayed
		return s.personal.Rows(userID, replayed, now), nil
	})
	if err != nil {
		return nil, fmt.Errorf("recompute personal ranking for %s: %w", userID, err)
	}

	if cache := s.snapshotCache(); cache != nil {
		snap := &models.PersonalSnapshot{UserID: userID, Mark: mark, Entries: entries, ComputedAt: now}
		if perr := cache.Put(ctx, snap); perr != nil {
			logging.Ctx(ctx).Warn().Err(perr).Str("user_id", userID).Msg("Failed to store personal snapshot")
		}
	}
	return entries, nil
}

// PersonalRankings returns userID's ranking, served from the snapshot when
// the ledger has not moved since it was taken. The boolean reports a
// snapshot hit.
func (s *Service) PersonalRankings(ctx context.Context, userID string) ([]models.PersonalRankingEntry, bool, error) {
	if cache := s.snapshotCache(); cache != nil {
		snap, err := cache.Get(ctx, userID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Failed to read personal snapshot")
		}
		if err == nil && snap != nil {
			mark, err := s.store.GetHighWaterMark(ctx, userID)
			if err != nil {
				return nil, false, fmt.Errorf("read high-water mark: %w", err)
			}
			if snap.Mark == mark {
				metrics.RecordCacheLookup(snapshotCacheType, true)
				return snap.Entries, true, nil
			}
		}
		metrics.RecordCacheLookup(snapshotCacheType, false)
	}

	entries, err := s.RecomputePersonal(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return entries, false, nil
}

// Recommend returns the restaurants userID is most likely to enjoy.
func (s *Service) Recommend(ctx context.Context, userID string) ([]models.Recommendation, error) {
	catalog, err := s.store.GetRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	ledger, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.GetPersonalRankings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list personal rankings: %w", err)
	}

	personal := make(map[int64]float64, len(rows))
	for i := range rows {
		personal[rows[i].RestaurantID] = rows[i].Score
	}

	recs := s.recs.Recommend(catalog, ledger, personal)
	metrics.RecommendationsServed.Add(float64(len(recs)))
	return recs, nil
}
