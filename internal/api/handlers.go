// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/models"
	"github.com/tomtom215/forkrank/internal/ranking"
	ws "github.com/tomtom215/forkrank/internal/websocket"
)

// hubRegisterTimeout bounds the wait for the hub to accept a new client.
const hubRegisterTimeout = 5 * time.Second

// RankingService is the part of *ranking.Service the handlers call.
type RankingService interface {
	Restaurants(ctx context.Context) ([]models.Restaurant, error)
	FilterRestaurants(ctx context.Context, area, cuisine string) ([]models.Restaurant, error)
	Restaurant(ctx context.Context, id int64) (*models.Restaurant, error)
	RandomPair(ctx context.Context, userID string) (*models.RestaurantPair, error)
	MarkTried(ctx context.Context, userID string, ids []int64) error
	RecordComparison(ctx context.Context, in ranking.ComparisonInput) (*models.Comparison, error)
	Comparisons(ctx context.Context, userID string) ([]models.Comparison, error)
	GlobalRankings(ctx context.Context) ([]models.RankedRestaurant, error)
	RecomputeGlobal(ctx context.Context) error
	RecomputePersonal(ctx context.Context, userID string) ([]models.PersonalRankingEntry, error)
	PersonalRankings(ctx context.Context, userID string) ([]models.PersonalRankingEntry, bool, error)
	Recommend(ctx context.Context, userID string) ([]models.Recommendation, error)
}

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade
//   - handlers_helpers.go: response and request helpers
//   - handlers_health.go: health endpoint
//   - handlers_restaurants.go: catalog, pair, tried marks, recommendations
//   - handlers_comparisons.go: comparison ledger
//   - handlers_rankings.go: global and personal rankings
type Handler struct {
	service     RankingService
	db          Pinger
	wsHub       *ws.Hub
	corsOrigins []string
	version     string
	startTime   time.Time
}

// NewHandler creates a new API handler.
//
// db may be nil, in which case /health reports the database as
// disconnected. wsHub may be nil, in which case /ws answers 503.
// corsOrigins lists the origins allowed to open a WebSocket; "*" allows any.
func NewHandler(service RankingService, db Pinger, wsHub *ws.Hub, corsOrigins []string) *Handler {
	return &Handler{
		service:     service,
		db:          db,
		wsHub:       wsHub,
		corsOrigins: corsOrigins,
		version:     "dev",
		startTime:   time.Now(),
	}
}

// SetVersion sets the build version reported by /health.
func (h *Handler) SetVersion(version string) {
	if version != "" {
		h.version = version
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on a WebSocket handshake.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// WebSocket upgrades the connection and registers it with the hub. Clients
// receive comparison_recorded and rankings_updated messages.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	select {
	case h.wsHub.Register <- client:
		client.Start()
	case <-time.After(hubRegisterTimeout):
		logging.Warn().Msg("WebSocket connection dropped: hub not accepting clients")
		_ = conn.Close()
	}
}
