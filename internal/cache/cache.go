// Package cache implements the in-memory response cache shared by the two
// read endpoints. Entries expire after a fixed TTL and are evicted lazily on
// the next lookup; there is no capacity bound and no background sweep.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	data      any
	expiresAt time.Time
}

// Store is a keyed, time-expiring store safe for concurrent use. The clock is
// injected so expiry can be tested without sleeping.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New creates a Store using the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Store with a custom time source.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the live value for key. Entries past their expiry are treated
// as absent and dropped.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.data, true
}

// Put stores data under key, unconditionally replacing any existing entry.
func (s *Store) Put(key string, data any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		data:      data,
		expiresAt: s.now().Add(ttl),
	}
}

// Len reports the number of entries currently held, including ones that have
// expired but not yet been evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
