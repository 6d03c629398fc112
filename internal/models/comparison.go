// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package models

import (
	"time"
)

// Comparison is one immutable ledger record.
//
// A choice comparison has both WinnerID and LoserID set and NotTried false.
// A "not tried" comparison signals that the user could not judge the
// presented pair; it carries neither id and PresentedIDs optionally records
// what was shown. Only choice comparisons feed rating updates.
type Comparison struct {
	ID           int64                  `json:"id"`
	WinnerID     *int64                 `json:"winnerId"`
	LoserID      *int64                 `json:"loserId"`
	UserID       string                 `json:"userId"`
	Context      map[string]interface{} `json:"context,omitempty"`
	NotTried     bool                   `json:"notTried"`
	PresentedIDs []int64                `json:"presentedIds,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// IsChoice reports whether the comparison should drive a rating update.
func (c *Comparison) IsChoice() bool {
	return !c.NotTried && c.WinnerID != nil && c.LoserID != nil
}

// Before reports whether c precedes other in ledger order. The id is the
// append sequence; CreatedAt is informational and never used for ordering.
func (c *Comparison) Before(other *Comparison) bool {
	return c.ID < other.ID
}

// ComparisonRecordedEvent is published after a comparison has been appended
// to the ledger and the incremental rating updates have been applied.
type ComparisonRecordedEvent struct {
	ComparisonID int64     `json:"comparisonId"`
	UserID       string    `json:"userId"`
	WinnerID     *int64    `json:"winnerId,omitempty"`
	LoserID      *int64    `json:"loserId,omitempty"`
	NotTried     bool      `json:"notTried"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// NewComparisonRecordedEvent builds the event for a persisted comparison.
func NewComparisonRecordedEvent(c *Comparison) *ComparisonRecordedEvent {
	return &ComparisonRecordedEvent{
		ComparisonID: c.ID,
		UserID:       c.UserID,
		WinnerID:     c.WinnerID,
		LoserID:      c.LoserID,
		NotTried:     c.NotTried,
		RecordedAt:   c.CreatedAt,
	}
}
