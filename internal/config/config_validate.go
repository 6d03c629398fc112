// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package config

import (
	"fmt"
	"math"
	"time"
)

// Validate checks that the configuration is complete and within bounds
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateRanking,
		c.validateSnapshot,
		c.validateEvents,
		c.validateReconcile,
		c.validateSecurity,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

const maxRecommendationLimit = 100

func (c *Config) validateRanking() error {
	if !isPositiveFinite(c.Ranking.Beta) {
		return fmt.Errorf("RANKING_BETA must be a positive finite number")
	}
	if !isPositiveFinite(c.Ranking.Gamma) {
		return fmt.Errorf("RANKING_GAMMA must be a positive finite number")
	}
	if math.IsNaN(c.Ranking.PersonalBaseline) || math.IsInf(c.Ranking.PersonalBaseline, 0) {
		return fmt.Errorf("PERSONAL_BASELINE must be finite")
	}
	p := c.Ranking.ExploreTriedProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("EXPLORE_TRIED_PROBABILITY must be between 0 and 1")
	}
	if c.Ranking.RecommendationLimit < 1 || c.Ranking.RecommendationLimit > maxRecommendationLimit {
		return fmt.Errorf("RECOMMENDATION_LIMIT must be between 1 and %d", maxRecommendationLimit)
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if !c.Snapshot.Enabled || c.Snapshot.InMemory {
		return nil
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("SNAPSHOT_PATH is required when SNAPSHOT_ENABLED=true and SNAPSHOT_IN_MEMORY=false")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.CloseTimeout <= 0 {
		return fmt.Errorf("EVENTS_CLOSE_TIMEOUT must be positive")
	}
	if c.Events.RetryMax < 0 || c.Events.RetryMax > 10 {
		return fmt.Errorf("EVENTS_RETRY_MAX must be between 0 and 10")
	}
	if c.Events.RetryInitialInterval <= 0 {
		return fmt.Errorf("EVENTS_RETRY_INTERVAL must be positive")
	}
	if !isPositiveFinite(c.Events.ReconcileRate) {
		return fmt.Errorf("RECONCILE_RATE must be a positive number")
	}
	if c.Events.ReconcileBurst < 1 {
		return fmt.Errorf("RECONCILE_BURST must be at least 1")
	}
	if c.Events.BreakerFailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if c.Events.BreakerTimeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

const minReconcileInterval = time.Second

func (c *Config) validateReconcile() error {
	if c.Reconcile.Interval == 0 {
		return nil
	}
	if c.Reconcile.Interval < minReconcileInterval {
		return fmt.Errorf("RECONCILE_INTERVAL must be 0 (disabled) or at least %v", minReconcileInterval)
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; set explicit origins")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
