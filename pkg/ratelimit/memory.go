// Package ratelimit provides counter stores for fixed-window rate limiting.
// The HTTP middleware only depends on the IncrWithTTL surface, so the
// in-memory store here and the Redis client are interchangeable.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store is the counter surface consumed by the rate-limit middleware.
type Store interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps fixed-window counters in process memory. It is the
// default store for single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryStore builds an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// IncrWithTTL increments the counter for key, starting a fresh window of the
// supplied TTL when none is active.
func (s *MemoryStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(ttl)}
		s.windows[key] = w
	}
	w.count++

	if len(s.windows) > 4096 {
		s.prune(now)
	}

	return w.count, nil
}

func (s *MemoryStore) prune(now time.Time) {
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
