// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/forkrank/internal/logging"
)

type capturedIDs struct {
	requestID     string
	logRequestID  string
	correlationID string
}

func serveWithRequestID(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, capturedIDs) {
	t.Helper()
	var got capturedIDs
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.requestID = GetRequestID(r.Context())
		got.logRequestID = logging.RequestIDFromContext(r.Context())
		got.correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, got
}

func TestRequestID_GeneratesIDs(t *testing.T) {
	t.Parallel()

	rec, got := serveWithRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil))

	responseID := rec.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID: %v", responseID, err)
	}
	if got.requestID != responseID || got.logRequestID != responseID {
		t.Errorf("context ids = %+v, header = %q", got, responseID)
	}
	if got.correlationID == "" || rec.Header().Get(HeaderCorrelationID) != got.correlationID {
		t.Errorf("correlation id = %q, header = %q", got.correlationID, rec.Header().Get(HeaderCorrelationID))
	}
}

func TestRequestID_PreservesInboundIDs(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/comparisons", nil)
	req.Header.Set(HeaderRequestID, "upstream-req-1")
	req.Header.Set(HeaderCorrelationID, "corr-42")

	rec, got := serveWithRequestID(t, req)

	if got.requestID != "upstream-req-1" || rec.Header().Get(HeaderRequestID) != "upstream-req-1" {
		t.Errorf("request id not preserved: %+v", got)
	}
	if got.correlationID != "corr-42" || rec.Header().Get(HeaderCorrelationID) != "corr-42" {
		t.Errorf("correlation id not preserved: %+v", got)
	}
}

func TestRequestID_RejectsUnsafeInboundIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"too long", strings.Repeat("a", maxInboundIDLength+1)},
		{"space", "two words"},
		{"newline", "id\ninjected"},
		{"non-ascii", "idé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header[HeaderRequestID] = []string{tt.value}

			_, got := serveWithRequestID(t, req)
			if got.requestID == tt.value {
				t.Errorf("unsafe id %q was accepted", tt.value)
			}
			if _, err := uuid.Parse(got.requestID); err != nil {
				t.Errorf("replacement id %q is not a UUID", got.requestID)
			}
		})
	}
}
