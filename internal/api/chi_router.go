// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/forkrank/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMW uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)        // X-Request-ID / X-Correlation-ID with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Ranking API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/restaurants", router.handler.Restaurants)
			r.Get("/restaurants/filter", router.handler.FilterRestaurants)
			r.Get("/restaurants/pair", router.handler.RandomPair)
			r.Get("/restaurants/recommendations", router.handler.Recommendations)
			r.Get("/restaurants/{id}", router.handler.Restaurant)
			r.Get("/comparisons", router.handler.Comparisons)
			r.Get("/rankings/global", router.handler.GlobalRankings)
			r.Get("/rankings/personal", router.handler.PersonalRankings)
		})

		// Votes
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitVote())

			r.Post("/restaurants/tried", router.handler.MarkTried)
			r.Post("/comparisons", router.handler.RecordComparison)
		})

		// Full ledger replays
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitRecompute())

			r.Post("/rankings/global/recompute", router.handler.RecomputeGlobal)
			r.Post("/rankings/personal/recompute", router.handler.RecomputePersonal)
		})

		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Prometheus
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
