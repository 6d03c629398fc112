// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package ranking

import (
	"sort"
	"sync"
)

// KeyLock serializes work per string key. Locks are created lazily and kept
// for the life of the process; the key space (restaurants, user-restaurant
// pairs) is bounded by the catalog and user base.
type KeyLock struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewKeyLock creates an empty KeyLock.
func NewKeyLock() *KeyLock {
	return &KeyLock{}
}

func (l *KeyLock) mutex(key string) *sync.Mutex {
	m, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// Lock acquires every key and returns a function that releases them.
// Keys are deduplicated and acquired in sorted order so two callers locking
// overlapping sets cannot deadlock.
func (l *KeyLock) Lock(keys ...string) (unlock func()) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		m := l.mutex(k)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
