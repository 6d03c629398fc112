// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/forkrank/internal/logging"
)

// Header names
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxInboundIDLength caps ids accepted from upstream proxies.
const maxInboundIDLength = 128

// RequestID assigns each request an id, taken from X-Request-ID when an
// upstream proxy set one, and a correlation id, taken from
// X-Correlation-ID or generated. Both are echoed in response headers and
// stored in the logging context; the request id is also stored under
// chi's RequestIDKey so chimiddleware.GetReqID works.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := inboundID(r.Header.Get(HeaderRequestID))
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		correlationID := inboundID(r.Header.Get(HeaderCorrelationID))
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(HeaderRequestID, requestID)
		w.Header().Set(HeaderCorrelationID, correlationID)

		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored by RequestID.
func GetRequestID(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

func inboundID(v string) string {
	if len(v) > maxInboundIDLength {
		return ""
	}
	for i := 0; i < len(v); i++ {
		if c := v[i]; c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return v
}
