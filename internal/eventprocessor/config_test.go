// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/forkrank/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Breaker.Name == "" {
		t.Error("breaker name should be set")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero close timeout", func(c *Config) { c.CloseTimeout = 0 }},
		{"negative retries", func(c *Config) { c.RetryMaxRetries = -1 }},
		{"retries without interval", func(c *Config) { c.RetryMaxRetries = 2; c.RetryInitialInterval = 0 }},
		{"zero rate", func(c *Config) { c.ReconcileRate = 0 }},
		{"zero burst", func(c *Config) { c.ReconcileBurst = 0 }},
		{"zero threshold", func(c *Config) { c.Breaker.FailureThreshold = 0 }},
		{"zero breaker timeout", func(c *Config) { c.Breaker.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigFromEvents(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromEvents(&config.EventsConfig{
		Enabled:                 true,
		CloseTimeout:            3 * time.Second,
		RetryMax:                5,
		RetryInitialInterval:    250 * time.Millisecond,
		ReconcileRate:           2.5,
		ReconcileBurst:          4,
		BreakerFailureThreshold: 7,
		BreakerTimeout:          time.Minute,
	})

	if cfg.CloseTimeout != 3*time.Second || cfg.RetryMaxRetries != 5 || cfg.RetryInitialInterval != 250*time.Millisecond {
		t.Errorf("router settings not mapped: %+v", cfg)
	}
	if cfg.ReconcileRate != 2.5 || cfg.ReconcileBurst != 4 {
		t.Errorf("limiter settings not mapped: %+v", cfg)
	}
	if cfg.Breaker.FailureThreshold != 7 || cfg.Breaker.Timeout != time.Minute {
		t.Errorf("breaker settings not mapped: %+v", cfg.Breaker)
	}
	if cfg.RetryMaxInterval != DefaultConfig().RetryMaxInterval {
		t.Errorf("unmapped fields should keep defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}
}
