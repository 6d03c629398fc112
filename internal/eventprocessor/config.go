// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/forkrank/internal/config"
)

// Config holds the event pipeline settings.
type Config struct {
	// CloseTimeout is how long the router waits for in-flight handlers on
	// shutdown.
	CloseTimeout time.Duration

	// Retry configuration for failed handlers.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// OutputChannelBuffer is the per-subscriber buffer of the in-process
	// pub/sub.
	OutputChannelBuffer int64

	// ReconcileRate limits event-driven global replays per second.
	// Events over the limit are acknowledged without a replay.
	ReconcileRate  float64
	ReconcileBurst int

	// Breaker protects RecomputeGlobal.
	Breaker CircuitBreakerConfig
}

// CircuitBreakerConfig configures the reconcile circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Requests allowed in half-open state
	Interval         time.Duration // Closed-state counter reset period (0 = never)
	Timeout          time.Duration // Open-state duration before half-open
	FailureThreshold uint32        // Consecutive failures that trip the breaker
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		OutputChannelBuffer:  256,
		ReconcileRate:        1,
		ReconcileBurst:       1,
		Breaker: CircuitBreakerConfig{
			Name:             "reconcile-global",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// ConfigFromEvents builds a Config from the application's events section.
func ConfigFromEvents(cfg *config.EventsConfig) Config {
	c := DefaultConfig()
	c.CloseTimeout = cfg.CloseTimeout
	c.RetryMaxRetries = cfg.RetryMax
	c.RetryInitialInterval = cfg.RetryInitialInterval
	c.ReconcileRate = cfg.ReconcileRate
	c.ReconcileBurst = cfg.ReconcileBurst
	c.Breaker.FailureThreshold = cfg.BreakerFailureThreshold
	c.Breaker.Timeout = cfg.BreakerTimeout
	return c
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.CloseTimeout <= 0 {
		return fmt.Errorf("%w: close timeout must be positive", ErrInvalidConfig)
	}
	if c.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry max must not be negative", ErrInvalidConfig)
	}
	if c.RetryMaxRetries > 0 && c.RetryInitialInterval <= 0 {
		return fmt.Errorf("%w: retry interval must be positive", ErrInvalidConfig)
	}
	if c.ReconcileRate <= 0 || c.ReconcileBurst < 1 {
		return fmt.Errorf("%w: reconcile rate and burst must be positive", ErrInvalidConfig)
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("%w: breaker failure threshold must be positive", ErrInvalidConfig)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("%w: breaker timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
