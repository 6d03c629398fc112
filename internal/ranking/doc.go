// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package ranking turns a ledger of pairwise restaurant choices into rankings.

Components:

  - Ledger: append-only log of comparisons. A choice names a winner and a
    loser; a not-tried entry names neither and carries no preference.
  - Selector: picks the next pair for a user. Users with no history get a
    uniform draw; users with history get pairs anchored on a restaurant they
    have tried.
  - GlobalAggregator: replays every user's choices from (0, 1).
  - PersonalAggregator: replays one user's choices from the configured
    baseline.
  - Recommender: blends cuisine affinity with personal scores.

Service wires these to a Store. Each recorded choice is applied
incrementally through crowdbt; RecomputeGlobal and RecomputePersonal rebuild
the same state from the ledger and must agree with the incremental result.

# Errors

Every failure the core reports is one of ValidationError, NotFoundError,
InsufficientCandidatesError or ComputationError. Each unwraps to a sentinel:

	if errors.Is(err, ranking.ErrNotFound) {
	    // 404
	}

# Concurrency

Service is safe for concurrent use. Updates are serialized per restaurant
and per user-restaurant pair through KeyLock; different users' submissions
touching different restaurants proceed in parallel.
*/
package ranking
