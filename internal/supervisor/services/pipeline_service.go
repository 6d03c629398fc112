// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package services

import (
	"context"
	"fmt"
	"time"
)

// PipelineRunner is satisfied by *eventprocessor.Pipeline.
type PipelineRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventPipelineService adapts the comparison event pipeline's
// Start/Shutdown lifecycle to suture's Serve:
//  1. Start(ctx) builds and runs a router
//  2. Serve blocks until ctx is canceled
//  3. Shutdown drains in-flight events within shutdownTimeout
//
// A failed Start is returned so suture restarts the service with backoff.
type EventPipelineService struct {
	pipeline        PipelineRunner
	shutdownTimeout time.Duration
	name            string
}

// NewEventPipelineService creates the wrapper. A non-positive timeout
// defaults to 10s.
func NewEventPipelineService(pipeline PipelineRunner, shutdownTimeout time.Duration) *EventPipelineService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventPipelineService{
		pipeline:        pipeline,
		shutdownTimeout: shutdownTimeout,
		name:            "event-pipeline",
	}
}

// Serve implements suture.Service.
func (s *EventPipelineService) Serve(ctx context.Context) error {
	if err := s.pipeline.Start(ctx); err != nil {
		return fmt.Errorf("event pipeline start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.pipeline.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String identifies the service in supervisor logs.
func (s *EventPipelineService) String() string {
	return s.name
}
