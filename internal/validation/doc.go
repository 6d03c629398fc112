// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use with
// WithRequiredStructEnabled. Error field names are the JSON names of the
// struct fields, so messages read like the request body the client sent.
//
// Custom tags:
//
//	cuisine   non-blank, no surrounding whitespace, printable, at most 50 runes
//
// Usage:
//
//	type MarkTriedRequest struct {
//	    UserID        string  `json:"userId" validate:"required,max=100"`
//	    RestaurantIDs []int64 `json:"restaurantIds" validate:"required,min=1,dive,gt=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
