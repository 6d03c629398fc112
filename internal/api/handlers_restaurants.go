// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/ranking"
)

// Restaurants returns the catalog ordered by global rating.
func (h *Handler) Restaurants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	restaurants, err := h.service.Restaurants(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurants, start, false)
}

// FilterRestaurants returns the restaurants in an area, or serving a
// cuisine when no area is given. With neither it returns the catalog.
func (h *Handler) FilterRestaurants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query()
	req := FilterRequest{
		Area:    strings.TrimSpace(query.Get("area")),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	restaurants, err := h.service.FilterRestaurants(r.Context(), req.Area, req.Cuisine)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurants, start, false)
}

// Restaurant returns a single restaurant by id.
func (h *Handler) Restaurant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondErrorWithDetails(w, http.StatusBadRequest, ErrCodeValidation, "id must be a positive integer",
			map[string]interface{}{"field": "id"}, nil)
		return
	}

	restaurant, err := h.service.Restaurant(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurant, start, false)
}

// RandomPair returns the next two restaurants to compare for the user.
func (h *Handler) RandomPair(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserQuery{UserID: userIDParam(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	pair, err := h.service.RandomPair(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, pair, start, false)
}

// MarkTried records that the user has eaten at every listed restaurant.
// Marks are idempotent; unknown ids reject the whole request.
func (h *Handler) MarkTried(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MarkTriedRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		req.UserID = ranking.AnonymousUserID
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if err := h.service.MarkTried(r.Context(), req.UserID, req.RestaurantIDs); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("user_id", req.UserID).
		Int("restaurants", len(req.RestaurantIDs)).
		Msg("Restaurants marked as tried")

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"userId":        req.UserID,
		"restaurantIds": req.RestaurantIDs,
	}, start, false)
}

// Recommendations returns the restaurants the user is most likely to enjoy.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := UserQuery{UserID: userIDParam(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	recs, err := h.service.Recommend(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, recs, start, false)
}
