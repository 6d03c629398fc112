// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/forkrank/config.yaml",
	"/etc/forkrank/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:        "/data/forkrank.duckdb",
			MaxMemory:   "1GB",
			Threads:     0,
			SeedCatalog: true,
		},
		Ranking: RankingConfig{
			Beta:                    0.5,
			Gamma:                   0.5,
			PersonalBaseline:        0,
			ExploreTriedProbability: 0.3,
			RecommendationLimit:     5,
			RandomSeed:              0,
		},
		Snapshot: SnapshotConfig{
			Enabled:  true,
			Path:     "/data/snapshots",
			InMemory: false,
		},
		Events: EventsConfig{
			Enabled:                 true,
			CloseTimeout:            10 * time.Second,
			RetryMax:                3,
			RetryInitialInterval:    100 * time.Millisecond,
			ReconcileRate:           1,
			ReconcileBurst:          1,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Reconcile: ReconcileConfig{
			Interval:  10 * time.Minute,
			OnStartup: true,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from layered sources:
//  1. Defaults
//  2. Config File (optional YAML)
//  3. Environment Variables
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DUCKDB_PATH -> database.path, EXPLORE_TRIED_PROBABILITY -> ranking.explore_tried_probability
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_catalog":      "database.seed_catalog",

	// Ranking
	"ranking_beta":              "ranking.beta",
	"ranking_gamma":             "ranking.gamma",
	"personal_baseline":         "ranking.personal_baseline",
	"explore_tried_probability": "ranking.explore_tried_probability",
	"recommendation_limit":      "ranking.recommendation_limit",
	"random_seed":               "ranking.random_seed",

	// Snapshot cache
	"snapshot_enabled":   "snapshot.enabled",
	"snapshot_path":      "snapshot.path",
	"snapshot_in_memory": "snapshot.in_memory",

	// Events
	"events_enabled":            "events.enabled",
	"events_close_timeout":      "events.close_timeout",
	"events_retry_max":          "events.retry_max",
	"events_retry_interval":     "events.retry_initial_interval",
	"reconcile_rate":            "events.reconcile_rate",
	"reconcile_burst":           "events.reconcile_burst",
	"breaker_failure_threshold": "events.breaker_failure_threshold",
	"breaker_timeout":           "events.breaker_timeout",

	// Periodic reconcile
	"reconcile_interval":   "reconcile.interval",
	"reconcile_on_startup": "reconcile.on_startup",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
