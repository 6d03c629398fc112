// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "HTTP_PORT"},
		{name: "unknown environment", mutate: func(c *Config) { c.Server.Environment = "qa" }, wantErr: "ENVIRONMENT"},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "DUCKDB_PATH"},
		{name: "zero beta", mutate: func(c *Config) { c.Ranking.Beta = 0 }, wantErr: "RANKING_BETA"},
		{name: "nan gamma", mutate: func(c *Config) { c.Ranking.Gamma = math.NaN() }, wantErr: "RANKING_GAMMA"},
		{name: "infinite baseline", mutate: func(c *Config) { c.Ranking.PersonalBaseline = math.Inf(1) }, wantErr: "PERSONAL_BASELINE"},
		{name: "baseline 1400", mutate: func(c *Config) { c.Ranking.PersonalBaseline = 1400 }},
		{name: "negative probability", mutate: func(c *Config) { c.Ranking.ExploreTriedProbability = -0.1 }, wantErr: "EXPLORE_TRIED_PROBABILITY"},
		{name: "zero limit", mutate: func(c *Config) { c.Ranking.RecommendationLimit = 0 }, wantErr: "RECOMMENDATION_LIMIT"},
		{name: "snapshot without path", mutate: func(c *Config) { c.Snapshot.Path = "" }, wantErr: "SNAPSHOT_PATH"},
		{name: "in-memory snapshot without path", mutate: func(c *Config) {
			c.Snapshot.Path = ""
			c.Snapshot.InMemory = true
		}},
		{name: "events zero rate", mutate: func(c *Config) { c.Events.ReconcileRate = 0 }, wantErr: "RECONCILE_RATE"},
		{name: "events disabled ignores rate", mutate: func(c *Config) {
			c.Events.Enabled = false
			c.Events.ReconcileRate = 0
		}},
		{name: "breaker threshold zero", mutate: func(c *Config) { c.Events.BreakerFailureThreshold = 0 }, wantErr: "BREAKER_FAILURE_THRESHOLD"},
		{name: "reconcile too frequent", mutate: func(c *Config) { c.Reconcile.Interval = time.Millisecond }, wantErr: "RECONCILE_INTERVAL"},
		{name: "reconcile disabled", mutate: func(c *Config) { c.Reconcile.Interval = 0 }},
		{name: "wildcard cors in production", mutate: func(c *Config) { c.Server.Environment = "production" }, wantErr: "CORS_ORIGINS"},
		{name: "explicit cors in production", mutate: func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://forkrank.example"}
		}},
		{name: "rate limit window too short", mutate: func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, wantErr: "RATE_LIMIT_WINDOW"},
		{name: "rate limit disabled skips bounds", mutate: func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
