// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package models defines data structures for the Forkrank application.

This package contains the records persisted by the database layer, the
derived views produced by the ranking aggregators, and the API response
envelope shared by every HTTP endpoint. It has no dependencies on other
internal packages so every layer can import it.

Key Components:

  - Restaurant: Catalog entry carrying the global CrowdBT rating and sigma
  - Comparison: One immutable ledger record (a choice or a "not tried" signal)
  - TriedMark: A user's claim to have eaten at a restaurant
  - PersonalRanking: Per-user persisted rating state for one restaurant
  - PersonalRankingEntry: One row of a user's derived personal ranking
  - Recommendation: A scored, untried restaurant suggestion
  - PersonalSnapshot: Cached personal ranking with its ledger high-water mark
  - APIResponse: Standardized API response wrapper

Model Categories:

1. Ledger Models:
  - Comparison, TriedMark

2. Rating State:
  - Restaurant (global), PersonalRanking (per user)

3. Derived Views:
  - RankedRestaurant, PersonalRankingEntry, Recommendation, PersonalSnapshot

4. API Models:
  - APIResponse, Metadata, APIError

JSON Conventions:

Domain records use camelCase field names (winnerId, cuisineTypes) so that
request and response bodies share one vocabulary. The response envelope
keeps snake_case metadata (query_time_ms).
*/
package models
