// Package ratelimit implements the per-user sliding-window rate limiter
// guarding the question endpoint.
//
// Admission is decided against the trailing window re-evaluated at each call
// time, not a fixed window boundary: a request is admitted when fewer than
// the configured limit of requests were admitted within the last window
// duration.
//
// State lives in process memory behind the Store interface. Entries are
// pruned lazily on access but identities are never removed from the store,
// so memory grows with the number of distinct identities ever seen. That is
// an accepted tradeoff for this single-process limiter; the Store interface
// exists so a shared external backend can replace it without touching the
// admission algorithm.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/answersai/backend/pkg/config"
)

// Store is the persistence layer for per-identity admission timestamps.
// Implementations must be safe for concurrent use; ordering within a single
// identity is provided by the limiter, which serializes all access to one
// identity's sequence.
type Store interface {
	// Get returns the recorded timestamps for an identity, oldest first.
	// An unknown identity yields an empty sequence.
	Get(identity string) []time.Time

	// Set replaces the recorded timestamps for an identity.
	Set(identity string, stamps []time.Time)
}

// SlidingWindowLimiter admits or rejects requests per identity.
//
// Mutation of one identity's sequence is serialized by a mutex scoped to
// that identity; different identities never contend on a shared lock, and
// concurrent admission attempts for the same identity can never jointly
// exceed the limit.
type SlidingWindowLimiter struct {
	limit  int
	window time.Duration
	store  Store

	// now is injectable for tests.
	now func() time.Time

	// locks maps identity -> *sync.Mutex. Entries are created lazily and,
	// like store entries, never removed.
	locks sync.Map
}

// LimiterOption configures a SlidingWindowLimiter.
type LimiterOption func(*SlidingWindowLimiter)

// WithNowFunc sets the clock used for admission decisions.
func WithNowFunc(now func() time.Time) LimiterOption {
	return func(l *SlidingWindowLimiter) {
		l.now = now
	}
}

// NewSlidingWindowLimiter creates a limiter from configuration.
func NewSlidingWindowLimiter(cfg *config.RateLimitConfig, store Store, opts ...LimiterOption) (*SlidingWindowLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	l := &SlidingWindowLimiter{
		limit:  cfg.Limit,
		window: cfg.Window,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// TryAdmit decides whether a request from the given identity is admitted
// right now. On admission the current time is recorded against the identity;
// on rejection the sequence is still pruned so stale entries do not linger.
func (l *SlidingWindowLimiter) TryAdmit(identity string) bool {
	mu := l.lockFor(identity)
	mu.Lock()
	defer mu.Unlock()

	now := l.now()
	stamps := l.store.Get(identity)

	// Prune everything at or beyond the window edge. An empty sequence and
	// a fully expired one behave identically.
	kept := make([]time.Time, 0, len(stamps)+1)
	for _, t := range stamps {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	if len(kept) < l.limit {
		kept = append(kept, now)
		l.store.Set(identity, kept)
		return true
	}

	l.store.Set(identity, kept)
	return false
}

// Usage returns the number of admissions currently counted against the
// identity's window.
func (l *SlidingWindowLimiter) Usage(identity string) int {
	mu := l.lockFor(identity)
	mu.Lock()
	defer mu.Unlock()

	now := l.now()
	count := 0
	for _, t := range l.store.Get(identity) {
		if now.Sub(t) < l.window {
			count++
		}
	}
	return count
}

func (l *SlidingWindowLimiter) lockFor(identity string) *sync.Mutex {
	if mu, ok := l.locks.Load(identity); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := l.locks.LoadOrStore(identity, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
