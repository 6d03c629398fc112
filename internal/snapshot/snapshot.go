// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/metrics"
	"github.com/tomtom215/forkrank/internal/models"
	"github.com/tomtom215/forkrank/internal/ranking"
)

// cacheType labels snapshot invalidations in metrics.
const cacheType = "personal_snapshot"

// keyPrefix namespaces snapshot keys.
const keyPrefix = "personal:"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("snapshot store closed")

	// ErrEmptyUserID is returned when a snapshot has no owner.
	ErrEmptyUserID = errors.New("snapshot user id is empty")
)

var _ ranking.SnapshotCache = (*Store)(nil)

// Config configures the snapshot store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps snapshots in memory only; they are lost on restart.
	InMemory bool

	// SyncWrites fsyncs every Put.
	SyncWrites bool
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("snapshot path is required unless in_memory is set")
	}
	return nil
}

// Store keeps one personal ranking snapshot per user in BadgerDB.
type Store struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the snapshot store.
func Open(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot config: %w", err)
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Snapshot store opened")
	return &Store{db: db}, nil
}

func key(userID string) []byte {
	return []byte(keyPrefix + userID)
}

// acquire read-locks the store for one operation. The returned release must
// be called when the operation finishes.
func (s *Store) acquire() (release func(), err error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	return s.mu.RUnlock, nil
}

// Get returns the snapshot for userID, or nil, nil when none is stored.
func (s *Store) Get(_ context.Context, userID string) (*models.PersonalSnapshot, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	var snap *models.PersonalSnapshot
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}
		return item.Value(func(val []byte) error {
			var decoded models.PersonalSnapshot
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("unmarshal snapshot: %w", err)
			}
			snap = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Put stores snap, replacing any previous snapshot of the same user.
func (s *Store) Put(_ context.Context, snap *models.PersonalSnapshot) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	if snap.UserID == "" {
		return ErrEmptyUserID
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(key(snap.UserID), data)); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
		return nil
	})
}

// Invalidate drops the snapshot of userID. Dropping a missing snapshot is
// not an error.
func (s *Store) Invalidate(_ context.Context, userID string) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key(userID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.CacheInvalidations.WithLabelValues(cacheType).Inc()
	return nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count() (int, error) {
	release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	count := 0
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC reclaims value log space. It returns nil when there was nothing to
// rewrite.
func (s *Store) RunGC(discardRatio float64) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	err = s.db.RunValueLogGC(discardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
		return fmt.Errorf("value log GC: %w", err)
	}
	return nil
}

// Close closes the store. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Snapshot store closed")
	return nil
}
