// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/ranking"
)

// RecordComparison appends a comparison to the ledger. A choice updates the
// global and personal ratings before the response is written; the created
// comparison is returned with status 201.
//
// When the comparison was stored but the rating updates failed, the stored
// comparison is returned with status 202: the ratings catch up on the next
// replay, and a retry would record the vote twice.
func (h *Handler) RecordComparison(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordComparisonRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), req.UserID)
	comparison, err := h.service.RecordComparison(ctx, req.ToInput())
	var partial *ranking.PartialWriteError
	if errors.As(err, &partial) && comparison != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("comparison_id", comparison.ID).Msg("Comparison accepted with pending rating update")
		respondSuccess(w, http.StatusAccepted, comparison, start, false)
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, comparison, start, false)
}

// Comparisons returns the ledger of one user, or the whole ledger when no
// userId is given. Entries are ordered oldest first.
func (h *Handler) Comparisons(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID != "" {
		req := UserQuery{UserID: userID}
		if apiErr := validateRequest(&req); apiErr != nil {
			respondValidationError(w, apiErr)
			return
		}
	}

	comparisons, err := h.service.Comparisons(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, comparisons, start, false)
}
