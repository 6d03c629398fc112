// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package services provides suture.Service wrappers for the ranking server's
long-running components.

Each wrapper implements:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in logs. Components are accepted
through small interfaces so this package does not import them.

Wrappers:

	HTTPServerService     *http.Server; ListenAndServe + graceful Shutdown
	WebSocketHubService   *websocket.Hub; delegates to RunWithContext
	EventPipelineService  *eventprocessor.Pipeline; Start, wait, Shutdown
	ReconcileService      *ranking.Service; RecomputeGlobal on startup and
	                      every interval, then a rankings_updated broadcast
	SnapshotGCService     *snapshot.Store; periodic BadgerDB value log GC

Serve returns ctx.Err() on normal shutdown and a wrapped error when the
component fails, which suture treats as a restart.
*/
package services
