// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkrank/internal/models"
	"github.com/tomtom215/forkrank/internal/ranking"
)

var _ RankingService = (*ranking.Service)(nil)

// mockRankingService records the arguments of each call and returns the
// configured values. Unset functions return zero values.
type mockRankingService struct {
	mu sync.Mutex

	restaurants  []models.Restaurant
	restaurant   *models.Restaurant
	pair         *models.RestaurantPair
	comparison   *models.Comparison
	comparisons  []models.Comparison
	ranked       []models.RankedRestaurant
	personal     []models.PersonalRankingEntry
	cached       bool
	recs         []models.Recommendation
	err          error
	recomputeErr error

	lastUserID    string
	lastArea      string
	lastCuisine   string
	lastID        int64
	lastIDs       []int64
	lastInput     ranking.ComparisonInput
	recomputes    int
	personalCalls int
}

func (m *mockRankingService) Restaurants(_ context.Context) ([]models.Restaurant, error) {
	return m.restaurants, m.err
}

func (m *mockRankingService) FilterRestaurants(_ context.Context, area, cuisine string) ([]models.Restaurant, error) {
	m.mu.Lock()
	m.lastArea, m.lastCuisine = area, cuisine
	m.mu.Unlock()
	return m.restaurants, m.err
}

func (m *mockRankingService) Restaurant(_ context.Context, id int64) (*models.Restaurant, error) {
	m.mu.Lock()
	m.lastID = id
	m.mu.Unlock()
	return m.restaurant, m.err
}

func (m *mockRankingService) RandomPair(_ context.Context, userID string) (*models.RestaurantPair, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()
	return m.pair, m.err
}

func (m *mockRankingService) MarkTried(_ context.Context, userID string, ids []int64) error {
	m.mu.Lock()
	m.lastUserID, m.lastIDs = userID, ids
	m.mu.Unlock()
	return m.err
}

func (m *mockRankingService) RecordComparison(_ context.Context, in ranking.ComparisonInput) (*models.Comparison, error) {
	m.mu.Lock()
	m.lastInput = in
	m.mu.Unlock()
	return m.comparison, m.err
}

func (m *mockRankingService) Comparisons(_ context.Context, userID string) ([]models.Comparison, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()
	return m.comparisons, m.err
}

func (m *mockRankingService) GlobalRankings(_ context.Context) ([]models.RankedRestaurant, error) {
	return m.ranked, m.err
}

func (m *mockRankingService) RecomputeGlobal(_ context.Context) error {
	m.mu.Lock()
	m.recomputes++
	m.mu.Unlock()
	return m.recomputeErr
}

func (m *mockRankingService) RecomputePersonal(_ context.Context, userID string) ([]models.PersonalRankingEntry, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.recomputes++
	m.mu.Unlock()
	if m.recomputeErr != nil {
		return nil, m.recomputeErr
	}
	return m.personal, nil
}

func (m *mockRankingService) PersonalRankings(_ context.Context, userID string) ([]models.PersonalRankingEntry, bool, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.personalCalls++
	m.mu.Unlock()
	return m.personal, m.cached, m.err
}

func (m *mockRankingService) Recommend(_ context.Context, userID string) ([]models.Recommendation, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()
	return m.recs, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

var errStorage = errors.New("duckdb: connection reset")

func ptr(v int64) *int64 { return &v }

// newTestServer returns the full router over svc with rate limiting off.
func newTestServer(svc RankingService) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"*"}
	cfg.RateLimitDisabled = true
	handler := NewHandler(svc, &mockPinger{}, nil, []string{"*"})
	return NewRouter(handler, NewChiMiddleware(cfg)).SetupChi()
}

// testResponse is the decoded envelope with the payload kept raw.
type testResponse struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp testResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v\n%s", err, w.Body.String())
		}
	}
	return w, resp
}

func decodeData(t *testing.T, resp testResponse, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, resp.Data)
	}
}
