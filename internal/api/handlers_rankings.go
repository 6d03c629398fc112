// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/forkrank/internal/ranking"
)

// Trigger reported in rankings_updated messages for API-initiated replays.
const triggerManual = "manual"

// GlobalRankings returns the catalog with 1-based rank numbers.
func (h *Handler) GlobalRankings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ranked, err := h.service.GlobalRankings(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, ranked, start, false)
}

// RecomputeGlobal replays the full ledger, replaces every global rating and
// returns the new ranking.
func (h *Handler) RecomputeGlobal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.service.RecomputeGlobal(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if h.wsHub != nil {
		h.wsHub.BroadcastRankingsUpdated("global", "", triggerManual, time.Since(start))
	}

	ranked, err := h.service.GlobalRankings(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, ranked, start, false)
}

// PersonalRankings returns the user's ranking over the whole catalog.
// Optional area and cuisine parameters narrow it the way
// /restaurants/filter does; ranks stay those of the full ranking.
// metadata.cached reports whether it came from the snapshot cache.
func (h *Handler) PersonalRankings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserQuery{UserID: userIDParam(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	query := r.URL.Query()
	filter := FilterRequest{
		Area:    strings.TrimSpace(query.Get("area")),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
	}
	if apiErr := validateRequest(&filter); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	entries, cached, err := h.service.PersonalRankings(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	entries = ranking.FilterPersonalEntries(entries, filter.Area, filter.Cuisine)
	respondSuccess(w, http.StatusOK, entries, start, cached)
}

// RecomputePersonal forces a replay of the user's ledger, bypassing the
// snapshot cache.
func (h *Handler) RecomputePersonal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserQuery{UserID: userIDParam(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	entries, err := h.service.RecomputePersonal(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if h.wsHub != nil {
		h.wsHub.BroadcastRankingsUpdated("personal", req.UserID, triggerManual, time.Since(start))
	}
	respondSuccess(w, http.StatusOK, entries, start, false)
}
