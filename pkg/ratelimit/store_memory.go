package ratelimit

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store backed by a map.
// Suitable for single-process deployments; state does not survive restarts
// and is not shared across replicas.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]time.Time),
	}
}

// Get returns the recorded timestamps for an identity.
func (s *MemoryStore) Get(identity string) []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[identity]
}

// Set replaces the recorded timestamps for an identity.
func (s *MemoryStore) Set(identity string, stamps []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[identity] = stamps
}

// Size returns the number of identities tracked (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure interface compliance at compile time.
var _ Store = (*MemoryStore)(nil)
