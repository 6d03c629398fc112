// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/models"
)

// Topics
const (
	TopicComparisonRecorded = "comparisons.recorded"
	TopicPoison             = "comparisons.poison"
)

// Metadata keys
const (
	MetadataCorrelationID = "correlation_id"
	MetadataUserID        = "user_id"
	MetadataEventType     = "event_type"
)

const eventTypeComparisonRecorded = "ComparisonRecorded"

// SerializeEvent encodes a comparison event as JSON.
func SerializeEvent(event *models.ComparisonRecordedEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal comparison event: %w", err)
	}
	return data, nil
}

// DeserializeEvent decodes a comparison event and checks it identifies a
// ledger entry.
func DeserializeEvent(data []byte) (*models.ComparisonRecordedEvent, error) {
	var event models.ComparisonRecordedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal comparison event: %w", err)
	}
	if event.ComparisonID <= 0 {
		return nil, fmt.Errorf("comparison event without comparison id")
	}
	return &event, nil
}

// NewComparisonMessage builds the watermill message for a recorded
// comparison. The correlation id is taken from ctx, or generated.
func NewComparisonMessage(ctx context.Context, c *models.Comparison) (*message.Message, error) {
	data, err := SerializeEvent(models.NewComparisonRecordedEvent(c))
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(uuid.New().String(), data)
	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}
	msg.Metadata.Set(MetadataCorrelationID, correlationID)
	msg.Metadata.Set(MetadataUserID, c.UserID)
	msg.Metadata.Set(MetadataEventType, eventTypeComparisonRecorded)
	return msg, nil
}
