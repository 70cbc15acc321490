package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a keyed TTL cache with an optional entry cap.
type Store[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	flight     resilience.SingleFlight
	now        func() time.Time
}

// NewStore builds a Store. ttl <= 0 disables caching; maxEntries <= 0 means unbounded.
func NewStore[V any](ttl time.Duration, maxEntries int) *Store[V] {
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" || s.ttl <= 0 {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" || s.ttl <= 0 {
		return
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictExpired(now)
		if len(s.entries) >= s.maxEntries {
			s.evictOne()
		}
	}

	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: now.Add(s.ttl),
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or loads it once across
// concurrent callers.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value.(V), nil
}

func (s *Store[V]) evictExpired(now time.Time) {
	for key, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, key)
		}
	}
}

func (s *Store[V]) evictOne() {
	for key := range s.entries {
		delete(s.entries, key)
		return
	}
}
