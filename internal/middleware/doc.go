// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package middleware provides chi-compatible HTTP middleware for the ranking API.

  - RequestID: request and correlation ids in headers and logging context
  - PrometheusMetrics: request count, duration and in-flight gauge labelled
    by chi route pattern

Both have the signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/restaurants/{id}", h.Restaurant)
	})

A comparison posted with X-Correlation-ID keeps that id through the
ComparisonRecorded event and the reconcile it triggers, so one grep over
the logs shows the whole flow.
*/
package middleware
