// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// routerSubscriber hands the pipeline's pub/sub to a router without giving
// the router ownership of it. Watermill's Router.Close closes every handler
// subscriber; the pub/sub must outlive each router so the pipeline can be
// started again. Subscriptions still end when the router cancels their
// context.
type routerSubscriber struct {
	sub message.Subscriber
}

func (s routerSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.sub.Subscribe(ctx, topic)
}

// Close is a no-op; Pipeline.Close closes the underlying pub/sub.
func (s routerSubscriber) Close() error {
	return nil
}

// routerPublisher is the publishing counterpart used by the poison queue.
type routerPublisher struct {
	pub message.Publisher
}

func (p routerPublisher) Publish(topic string, messages ...*message.Message) error {
	return p.pub.Publish(topic, messages...)
}

// Close is a no-op; Pipeline.Close closes the underlying pub/sub.
func (p routerPublisher) Close() error {
	return nil
}
