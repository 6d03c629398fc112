// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package config provides layered configuration loading for Forkrank.

Configuration is assembled with Koanf v2 from three sources, each
overriding the previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or the first of config.yaml,
    config.yml, /etc/forkrank/config.yaml, /etc/forkrank/config.yml
 3. Environment variables, through an explicit name mapping

# Example config.yaml

	server:
	  port: 8080
	database:
	  path: /data/forkrank.duckdb
	ranking:
	  beta: 0.5
	  gamma: 0.5
	  personal_baseline: 0
	  explore_tried_probability: 0.3
	  recommendation_limit: 5
	snapshot:
	  path: /data/snapshots
	reconcile:
	  interval: 10m

# Environment Variables

Server: HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT
Database: DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, SEED_CATALOG
Ranking: RANKING_BETA, RANKING_GAMMA, PERSONAL_BASELINE,
EXPLORE_TRIED_PROBABILITY, RECOMMENDATION_LIMIT, RANDOM_SEED
Snapshot: SNAPSHOT_ENABLED, SNAPSHOT_PATH, SNAPSHOT_IN_MEMORY
Events: EVENTS_ENABLED, EVENTS_CLOSE_TIMEOUT, EVENTS_RETRY_MAX,
EVENTS_RETRY_INTERVAL, RECONCILE_RATE, RECONCILE_BURST,
BREAKER_FAILURE_THRESHOLD, BREAKER_TIMEOUT
Reconcile: RECONCILE_INTERVAL, RECONCILE_ON_STARTUP
Security: CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS,
RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
Logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Durations accept Go duration strings ("30s", "10m").
*/
package config
