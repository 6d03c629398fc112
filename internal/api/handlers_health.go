// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
)

// Health handles health check requests
//
// The server is "healthy" when the database answers a ping and "degraded"
// otherwise. Both answer 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		WebSocketClients:  clients,
		Uptime:            uptime,
	}, start, false)
}
