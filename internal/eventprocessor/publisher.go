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
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
	"github.com/tomtom215/forkrank/internal/ranking"
)

var _ ranking.EventPublisher = (*Publisher)(nil)

// NewPubSub creates the in-process pub/sub that carries comparison events
// from the ranking service to the router.
func NewPubSub(cfg Config, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputChannelBuffer,
	}, logger)
}

// Publisher publishes ranking events. It implements ranking.EventPublisher.
type Publisher struct {
	publisher message.Publisher
	mu        sync.RWMutex
	closed    bool
}

// NewPublisher wraps a watermill publisher.
func NewPublisher(pub message.Publisher) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{publisher: pub}, nil
}

// Publish sends msg to topic.
func (p *Publisher) Publish(topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	err := p.publisher.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	return err
}

// PublishComparisonRecorded publishes a ComparisonRecorded event for c.
func (p *Publisher) PublishComparisonRecorded(ctx context.Context, c *models.Comparison) error {
	msg, err := NewComparisonMessage(ctx, c)
	if err != nil {
		return fmt.Errorf("build comparison message: %w", err)
	}
	if err := p.Publish(TopicComparisonRecorded, msg); err != nil {
		return fmt.Errorf("publish comparison %d: %w", c.ID, err)
	}
	return nil
}

// Close stops accepting events. The underlying pub/sub is owned by the
// caller and is not closed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
