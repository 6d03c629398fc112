// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/forkrank/internal/logging"
)

// reconcilerHandlerName names the consumer handler in router logs.
const reconcilerHandlerName = "global-reconciler"

// Pipeline owns the comparison event flow: the in-process pub/sub, the
// publisher handed to the ranking service and the router running the
// reconciler. It has a Start/Shutdown lifecycle so a supervisor can restart
// it; each Start builds a fresh router on the same pub/sub, which only
// Close shuts down.
type Pipeline struct {
	cfg        Config
	logger     watermill.LoggerAdapter
	pubSub     *gochannel.GoChannel
	publisher  *Publisher
	reconciler *Reconciler

	mu     sync.Mutex
	router *Router
	done   chan struct{}
}

// NewPipeline wires the pub/sub, publisher and reconciler.
func NewPipeline(cfg Config, recomputer GlobalRecomputer, snapshots SnapshotInvalidator, notifier Notifier) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewWatermillAdapter()
	pubSub := NewPubSub(cfg, logger)

	publisher, err := NewPublisher(pubSub)
	if err != nil {
		return nil, err
	}

	reconciler, err := NewReconciler(recomputer, snapshots, notifier, cfg)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		pubSub:     pubSub,
		publisher:  publisher,
		reconciler: reconciler,
	}, nil
}

// Publisher returns the publisher to hand to ranking.Service.
func (p *Pipeline) Publisher() *Publisher {
	return p.publisher
}

// Reconciler returns the event handler.
func (p *Pipeline) Reconciler() *Reconciler {
	return p.reconciler
}

// Start builds a router, registers the reconciler and runs it in the
// background. It returns once the router is running.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.router != nil {
		return ErrPipelineRunning
	}

	router, err := NewRouter(&p.cfg, routerPublisher{pub: p.pubSub}, p.logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}
	router.AddConsumerHandler(reconcilerHandlerName, TopicComparisonRecorded, routerSubscriber{sub: p.pubSub}, p.reconciler.Handle)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := router.Run(ctx); err != nil {
			logging.Error().Err(err).Msg("Event router stopped with error")
		}
	}()

	select {
	case <-router.Running():
	case <-done:
		return fmt.Errorf("event router exited during startup")
	case <-ctx.Done():
		_ = router.Close()
		<-done
		return ctx.Err()
	}

	p.router = router
	p.done = done
	logging.Info().Str("topic", TopicComparisonRecorded).Msg("Event pipeline started")
	return nil
}

// Shutdown stops the router and waits for it to exit or for ctx to expire.
func (p *Pipeline) Shutdown(ctx context.Context) {
	p.mu.Lock()
	router, done := p.router, p.done
	p.router, p.done = nil, nil
	p.mu.Unlock()

	if router == nil {
		return
	}
	if err := router.Close(); err != nil {
		logging.Warn().Err(err).Msg("Event router close failed")
	}
	select {
	case <-done:
		logging.Info().Msg("Event pipeline stopped")
	case <-ctx.Done():
		logging.Warn().Msg("Event pipeline shutdown timed out")
	}
}

// IsRunning reports whether the router is processing events.
func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router != nil && p.router.IsRunning()
}

// Close stops the pipeline and closes the publisher and pub/sub.
func (p *Pipeline) Close(ctx context.Context) error {
	p.Shutdown(ctx)
	_ = p.publisher.Close()
	return p.pubSub.Close()
}
