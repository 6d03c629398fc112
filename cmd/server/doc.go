// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package main is the entry point for the Forkrank server.

Forkrank ranks restaurants from pairwise "which was better?" votes. Every
vote is appended to a comparison ledger and folded into a global CrowdBT
rating per restaurant and a personal rating per user. Personal rankings
are cached in BadgerDB and recommendations blend both ratings.

# Application Architecture

The server runs its long-lived components under a Suture v4 supervisor tree:

	RootSupervisor ("forkrank")
	├── DataSupervisor ("data-layer")
	│   ├── Reconcile Service (periodic global replay)
	│   └── Snapshot GC (BadgerDB value log GC)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (rankings_updated broadcasts)
	│   └── Event Pipeline (Watermill comparison events)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB store, seeded with the default catalog when enabled
 4. Ranking Service: CrowdBT parameters from configuration
 5. Snapshot Cache: BadgerDB personal snapshots (optional)
 6. WebSocket Hub and Event Pipeline (optional)
 7. Supervisor Tree and HTTP Server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/forkrank.duckdb
	SEED_CATALOG=true
	SNAPSHOT_ENABLED=true
	SNAPSHOT_PATH=/data/snapshots

	# Ranking
	RANKING_BETA=0.5
	RANKING_GAMMA=0.5
	RECOMMENDATION_LIMIT=5

	# Background work
	EVENTS_ENABLED=true
	RECONCILE_INTERVAL=10m

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server, drains the event pipeline and closes the hub. The snapshot store
and database are closed last.

# Example Usage

Development with an in-memory snapshot cache:

	export DUCKDB_PATH=./forkrank.duckdb
	export SNAPSHOT_IN_MEMORY=true
	export LOG_FORMAT=console
	./forkrank
*/
package main
