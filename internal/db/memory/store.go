// Package memory implements db.KVStore on a bounded in-process LRU.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/vedarag/internal/db"
)

var (
	_ db.Pinger  = (*Store)(nil)
	_ db.KVStore = (*Store)(nil)
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store keeps at most size entries. maxTTL bounds every entry's lifetime;
// shorter per-entry TTLs are honored on read.
type Store struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// New creates a Store. size <= 0 means unbounded.
func New(size int, maxTTL time.Duration) *Store {
	return &Store{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return nil, db.ErrKeyNotFound
	}
	return e.value, nil
}

// SetWithTTL stores a copy of value.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.lru.Add(key, e)
	return nil
}

// Len returns the number of cached entries.
func (s *Store) Len() int { return s.lru.Len() }
