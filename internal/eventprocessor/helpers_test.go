// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package eventprocessor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/forkrank/internal/models"
)

type mockRecomputer struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func newMockRecomputer() *mockRecomputer {
	return &mockRecomputer{done: make(chan struct{}, 16)}
}

func (m *mockRecomputer) RecomputeGlobal(_ context.Context) error {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()
	select {
	case m.done <- struct{}{}:
	default:
	}
	return err
}

func (m *mockRecomputer) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockRecomputer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockInvalidator struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (m *mockInvalidator) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, userID)
	return m.err
}

func (m *mockInvalidator) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.users...)
}

type rankingsUpdate struct {
	scope   string
	userID  string
	trigger string
}

type mockNotifier struct {
	mu       sync.Mutex
	recorded []*models.ComparisonRecordedEvent
	updates  []rankingsUpdate
}

func (m *mockNotifier) BroadcastComparisonRecorded(event *models.ComparisonRecordedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, event)
}

func (m *mockNotifier) BroadcastRankingsUpdated(scope, userID, trigger string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, rankingsUpdate{scope: scope, userID: userID, trigger: trigger})
}

func (m *mockNotifier) Counts() (recorded, updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded), len(m.updates)
}

func ptr(v int64) *int64 { return &v }

// testConfig returns a config with a generous limiter and fast retries.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CloseTimeout = 2 * time.Second
	cfg.RetryMaxRetries = 0
	cfg.ReconcileRate = 1000
	cfg.ReconcileBurst = 1000
	return cfg
}

func choice(id int64, userID string) *models.Comparison {
	return &models.Comparison{
		ID:        id,
		WinnerID:  ptr(1),
		LoserID:   ptr(2),
		UserID:    userID,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func notTried(id int64, userID string) *models.Comparison {
	return &models.Comparison{
		ID:           id,
		UserID:       userID,
		NotTried:     true,
		PresentedIDs: []int64{1, 2},
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func comparisonMessage(t *testing.T, c *models.Comparison) *message.Message {
	t.Helper()
	msg, err := NewComparisonMessage(context.Background(), c)
	if err != nil {
		t.Fatalf("NewComparisonMessage: %v", err)
	}
	return msg
}
