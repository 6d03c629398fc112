// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package websocket provides the live ranking feed.

Connected clients receive a message whenever a comparison is recorded and
whenever a ranking replay completes. It uses gorilla/websocket with a
hub-and-client architecture.

Key Components:

  - Hub: manages client connections and fans out broadcasts
  - Client: one WebSocket connection with a read and a write goroutine
  - Message: typed envelope {"type": ..., "data": ...}

Message Types:

  - comparison_recorded: a models.ComparisonRecordedEvent
  - rankings_updated: RankingsUpdatedData (scope, trigger, duration)
  - ping / pong: client keepalive

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	// in the /ws handler, after upgrading
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

	hub.BroadcastRankingsUpdated("global", "", "event", took)

Thread Safety:

All Hub methods are safe for concurrent use. Broadcasts never block: when
the broadcast buffer is full the message is dropped with a warning, and a
client whose send buffer is full is disconnected.
*/
package websocket
