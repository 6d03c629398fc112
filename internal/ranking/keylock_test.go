// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"sync"
	"testing"
	"time"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	t.Parallel()

	l := NewKeyLock()
	var (
		wg      sync.WaitGroup
		counter int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("r:1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestKeyLock_OverlappingSetsDoNotDeadlock(t *testing.T) {
	t.Parallel()

	l := NewKeyLock()
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				l.Lock("a", "b", "c")()
			}()
			go func() {
				defer wg.Done()
				l.Lock("c", "b", "a", "a")()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("overlapping lock sets deadlocked")
	}
}

func TestKeyLock_IndependentKeys(t *testing.T) {
	t.Parallel()

	l := NewKeyLock()
	unlock := l.Lock("p:alice:1")
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		l.Lock("p:bob:1")()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on an unrelated key blocked")
	}
}
