// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after LoadWithKoanf() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Snapshot  SnapshotConfig  `koanf:"snapshot"`
	Events    EventsConfig    `koanf:"events"`
	Reconcile ReconcileConfig `koanf:"reconcile"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path        string `koanf:"path"` // ":memory:" for an in-process database
	MaxMemory   string `koanf:"max_memory"`
	Threads     int    `koanf:"threads"`      // 0 = use runtime.NumCPU()
	SeedCatalog bool   `koanf:"seed_catalog"` // Insert the starter catalog when the table is empty
}

// RankingConfig holds the rating engine constants and selection policy.
type RankingConfig struct {
	// Beta and Gamma are the CrowdBT learning and uncertainty shrink rates.
	Beta  float64 `koanf:"beta"`
	Gamma float64 `koanf:"gamma"`

	// PersonalBaseline is the score every restaurant starts at in a
	// user's personal ranking.
	PersonalBaseline float64 `koanf:"personal_baseline"`

	// ExploreTriedProbability is the chance that a warm-mode pair is drawn
	// entirely from restaurants the user has tried.
	ExploreTriedProbability float64 `koanf:"explore_tried_probability"`

	RecommendationLimit int `koanf:"recommendation_limit"`

	// RandomSeed seeds the pair selector. 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`
}

// SnapshotConfig holds the BadgerDB personal snapshot cache settings
type SnapshotConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// EventsConfig holds comparison event pipeline settings
type EventsConfig struct {
	Enabled                 bool          `koanf:"enabled"`
	CloseTimeout            time.Duration `koanf:"close_timeout"`
	RetryMax                int           `koanf:"retry_max"`
	RetryInitialInterval    time.Duration `koanf:"retry_initial_interval"`
	ReconcileRate           float64       `koanf:"reconcile_rate"` // Event-driven global replays per second
	ReconcileBurst          int           `koanf:"reconcile_burst"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// ReconcileConfig holds periodic global replay settings
type ReconcileConfig struct {
	Interval  time.Duration `koanf:"interval"` // 0 disables the periodic service
	OnStartup bool          `koanf:"on_startup"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
