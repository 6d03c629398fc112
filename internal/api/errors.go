// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/forkrank/internal/ranking"
)

// Error codes for API responses
const (
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeInsufficientCandidates = "INSUFFICIENT_CANDIDATES"
	ErrCodeComputation            = "COMPUTATION_ERROR"
	ErrCodeDatabase               = "DATABASE_ERROR"
	ErrCodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
)

// serviceError is the HTTP rendering of an error returned by the ranking core.
type serviceError struct {
	status  int
	code    string
	message string
	details map[string]interface{}
}

// classifyError maps ranking errors to a status, a code and a client-safe
// message. Storage failures are reported without their text.
func classifyError(err error) serviceError {
	var (
		verr *ranking.ValidationError
		nf   *ranking.NotFoundError
		ic   *ranking.InsufficientCandidatesError
		ce   *ranking.ComputationError
	)
	switch {
	case errors.As(err, &verr):
		return serviceError{
			status:  http.StatusBadRequest,
			code:    ErrCodeValidation,
			message: verr.Error(),
			details: map[string]interface{}{"field": verr.Field},
		}
	case errors.As(err, &nf):
		return serviceError{
			status:  http.StatusNotFound,
			code:    ErrCodeNotFound,
			message: nf.Error(),
			details: map[string]interface{}{"kind": nf.Kind, "id": nf.ID},
		}
	case errors.As(err, &ic):
		return serviceError{
			status:  http.StatusConflict,
			code:    ErrCodeInsufficientCandidates,
			message: ic.Error(),
			details: map[string]interface{}{"available": ic.Available},
		}
	case errors.As(err, &ce):
		return serviceError{
			status:  http.StatusInternalServerError,
			code:    ErrCodeComputation,
			message: "Rating computation produced a non-finite value",
			details: map[string]interface{}{"scope": ce.Scope, "restaurantId": ce.RestaurantID},
		}
	default:
		return serviceError{
			status:  http.StatusInternalServerError,
			code:    ErrCodeDatabase,
			message: "A database error occurred",
		}
	}
}
