package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute, 0)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	current := time.Unix(1000, 0)
	store := NewStore[string](time.Minute, 0)
	store.now = func() time.Time { return current }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected cache hit")
	}

	current = current.Add(time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected cache miss after expiry")
	}
}

func TestStore_EvictsWhenFull(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute, 2)
	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)
	store.Set(context.Background(), "c", 3)

	if got := store.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
	if v, ok := store.Get(context.Background(), "c"); !ok || v != 3 {
		t.Fatalf("newest entry must be present, got %d (ok=%v)", v, ok)
	}
}

func TestStore_DisabledWithoutTTL(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0, 0)
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
