// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package api provides the HTTP REST API layer for Forkrank.

Every endpoint lives under /api/v1 and answers with the models.APIResponse
envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "NOT_FOUND", "message": "..."}}

Endpoints:

	GET  /health                             liveness and database ping
	GET  /restaurants                        catalog by global rating
	GET  /restaurants/filter?area=&cuisine=  filtered catalog
	GET  /restaurants/{id}                   single restaurant
	GET  /restaurants/pair?userId=           next pair to compare
	POST /restaurants/tried                  bulk tried marks
	GET  /restaurants/recommendations        personalized recommendations
	POST /comparisons                        record a comparison
	GET  /comparisons?userId=                comparison ledger
	GET  /rankings/global                    ranked catalog
	POST /rankings/global/recompute          full global replay
	GET  /rankings/personal?userId=          personal ranking (snapshot-backed; optional area, cuisine)
	POST /rankings/personal/recompute        forced personal replay
	GET  /ws                                 live comparison and ranking feed

/metrics serves Prometheus metrics outside the /api/v1 prefix.

Errors from the ranking core map to status codes through errors.As:

	*ranking.ValidationError              400 VALIDATION_ERROR
	*ranking.NotFoundError                404 NOT_FOUND
	*ranking.InsufficientCandidatesError  409 INSUFFICIENT_CANDIDATES
	*ranking.ComputationError             500 COMPUTATION_ERROR
	anything else                         500 DATABASE_ERROR

A request without userId acts for the "anonymous" user.

Middleware (outermost first): request ID with logging context, real IP,
panic recovery, CORS, security headers, Prometheus metrics and per-route
httprate limits.

Usage Example:

	handler := api.NewHandler(rankingService, db, wsHub, cfg.Security.CORSOrigins)
	chiMW := api.NewChiMiddlewareFromConfig(&cfg.Security)
	router := api.NewRouter(handler, chiMW)
	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
