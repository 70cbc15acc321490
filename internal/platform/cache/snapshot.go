package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
)

const snapshotFlightKey = "snapshot"

// DefaultSharedLoadTimeout bounds a load shared by concurrent readers.
const DefaultSharedLoadTimeout = 10 * time.Second

// Snapshot holds one computed value and the epoch second it was computed at.
// The value/timestamp pair is only ever read and written together under mu.
type Snapshot[T any] struct {
	mu       sync.RWMutex
	value    T
	cachedAt int64
	filled   bool
	flight   resilience.SingleFlight

	sharedTimeout time.Duration
}

type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	sharedTimeout time.Duration
}

// WithSharedLoadTimeout overrides DefaultSharedLoadTimeout.
func WithSharedLoadTimeout(d time.Duration) SnapshotOption {
	return func(o *snapshotOptions) {
		if d > 0 {
			o.sharedTimeout = d
		}
	}
}

func NewSnapshot[T any](opts ...SnapshotOption) *Snapshot[T] {
	cfg := snapshotOptions{sharedTimeout: DefaultSharedLoadTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Snapshot[T]{sharedTimeout: cfg.sharedTimeout}
}

// Get returns the cached value when forceRefresh is false and
// now < cachedAt+ttlSeconds. Otherwise it runs load, stores the result with
// cachedAt = now and returns it. The bool result reports a cache hit.
//
// Concurrent non-forced misses share one load. The shared load keeps the
// first caller's values but not its cancellation, so one reader leaving
// does not fail the others; it is bounded by the shared load timeout.
// Forced refreshes always load on the caller's ctx.
func (s *Snapshot[T]) Get(ctx context.Context, forceRefresh bool, now, ttlSeconds int64, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if load == nil {
		return zero, false, fmt.Errorf("loader is required")
	}

	if forceRefresh {
		value, err := s.refresh(ctx, now, load)
		return value, false, err
	}

	if value, ok := s.fresh(now, ttlSeconds); ok {
		return value, true, nil
	}

	shared, err, _ := s.flight.Do(snapshotFlightKey, func() (any, error) {
		if value, ok := s.fresh(now, ttlSeconds); ok {
			return value, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sharedTimeout)
		defer cancel()
		return s.refresh(loadCtx, now, load)
	})
	if err != nil {
		return zero, false, err
	}

	return shared.(T), false, nil
}

// Peek returns the cached pair without loading.
func (s *Snapshot[T]) Peek() (T, int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.cachedAt, s.filled
}

// Invalidate drops the cached pair.
func (s *Snapshot[T]) Invalidate() {
	var zero T
	s.mu.Lock()
	s.value, s.cachedAt, s.filled = zero, 0, false
	s.mu.Unlock()
}

func (s *Snapshot[T]) fresh(now, ttlSeconds int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filled && now < s.cachedAt+ttlSeconds {
		return s.value, true
	}
	var zero T
	return zero, false
}

// refresh loads and stores the result unless a newer pair landed meanwhile.
func (s *Snapshot[T]) refresh(ctx context.Context, now int64, load func(context.Context) (T, error)) (T, error) {
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	if !s.filled || now >= s.cachedAt {
		s.value, s.cachedAt, s.filled = value, now, true
	}
	s.mu.Unlock()

	return value, nil
}
