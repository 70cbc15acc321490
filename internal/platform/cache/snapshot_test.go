package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type board struct {
	version int
	at      int64
}

func TestSnapshot_HitWithinTTL(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	var calls atomic.Int32
	load := func(context.Context) (board, error) {
		n := calls.Add(1)
		return board{version: int(n)}, nil
	}

	first, hit, err := snap.Get(context.Background(), false, 1000, 60, load)
	if err != nil || hit {
		t.Fatalf("first call must miss: hit=%v err=%v", hit, err)
	}

	second, hit, err := snap.Get(context.Background(), false, 1059, 60, load)
	if err != nil || !hit {
		t.Fatalf("expected hit inside ttl: hit=%v err=%v", hit, err)
	}
	if second != first {
		t.Fatalf("cached value must be returned unchanged: got=%+v want=%+v", second, first)
	}
	if calls.Load() != 1 {
		t.Fatalf("loader called %d times, want 1", calls.Load())
	}
}

func TestSnapshot_ExpiresAtTTLBoundary(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	var calls atomic.Int32
	load := func(context.Context) (board, error) {
		return board{version: int(calls.Add(1))}, nil
	}

	if _, _, err := snap.Get(context.Background(), false, 1000, 60, load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, hit, err := snap.Get(context.Background(), false, 1060, 60, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit || got.version != 2 {
		t.Fatalf("expected recompute at now == cachedAt+ttl, hit=%v value=%+v", hit, got)
	}

	_, cachedAt, ok := snap.Peek()
	if !ok || cachedAt != 1060 {
		t.Fatalf("expected cachedAt=1060, got %d (filled=%v)", cachedAt, ok)
	}
}

func TestSnapshot_ForceRefreshAlwaysRecomputes(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	var calls atomic.Int32
	load := func(context.Context) (board, error) {
		return board{version: int(calls.Add(1))}, nil
	}

	if _, _, err := snap.Get(context.Background(), false, 1000, 60, load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, hit, err := snap.Get(context.Background(), true, 1001, 60, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit || got.version != 2 {
		t.Fatalf("forced refresh must recompute: hit=%v value=%+v", hit, got)
	}
}

func TestSnapshot_ZeroTTLNeverHits(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	var calls atomic.Int32
	load := func(context.Context) (board, error) {
		return board{version: int(calls.Add(1))}, nil
	}

	for i := 0; i < 3; i++ {
		if _, hit, err := snap.Get(context.Background(), false, 1000, 0, load); err != nil || hit {
			t.Fatalf("zero ttl must not hit: hit=%v err=%v", hit, err)
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("loader called %d times, want 3", calls.Load())
	}
}

func TestSnapshot_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	boom := errors.New("boom")
	if _, _, err := snap.Get(context.Background(), false, 1000, 60, func(context.Context) (board, error) {
		return board{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, _, ok := snap.Peek(); ok {
		t.Fatalf("failed load must not fill the cache")
	}
}

func TestSnapshot_StaleRecomputeDoesNotOverwriteNewerPair(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	if _, _, err := snap.Get(context.Background(), true, 2000, 60, func(context.Context) (board, error) {
		return board{version: 2, at: 2000}, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _, err := snap.Get(context.Background(), true, 1500, 60, func(context.Context) (board, error) {
		return board{version: 1, at: 1500}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.version != 1 {
		t.Fatalf("caller must still receive its own recomputation, got %+v", got)
	}

	value, cachedAt, _ := snap.Peek()
	if value.version != 2 || cachedAt != 2000 {
		t.Fatalf("newer pair must survive: value=%+v cachedAt=%d", value, cachedAt)
	}
}

func TestSnapshot_ConcurrentMissesShareOneLoad(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	var calls atomic.Int32
	load := func(context.Context) (board, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return board{version: 1}, nil
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
			got, _, err := snap.Get(context.Background(), false, 1000, 60, load)
			if err != nil {
				errCh <- err
				return
			}
			if got.version != 1 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestSnapshot_PairIsConsistentUnderConcurrentRefresh(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board]()
	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers * 2)

	for i := 0; i < workers; i++ {
		now := int64(1000 + i)
		go func() {
			defer wg.Done()
			_, _, _ = snap.Get(context.Background(), true, now, 60, func(context.Context) (board, error) {
				return board{at: now}, nil
			})
		}()
		go func() {
			defer wg.Done()
			value, cachedAt, ok := snap.Peek()
			if ok && value.at != cachedAt {
				t.Errorf("torn pair observed: value.at=%d cachedAt=%d", value.at, cachedAt)
			}
		}()
	}
	wg.Wait()

	value, cachedAt, ok := snap.Peek()
	if !ok || value.at != cachedAt || cachedAt != 1000+workers-1 {
		t.Fatalf("expected newest pair to win: value=%+v cachedAt=%d", value, cachedAt)
	}

	snap.Invalidate()
	if _, _, ok := snap.Peek(); ok {
		t.Fatalf("expected empty snapshot after invalidate")
	}
}

func TestSnapshot_SharedLoadOutlivesCanceledLeader(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board](WithSharedLoadTimeout(time.Second))
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	load := func(ctx context.Context) (board, error) {
		once.Do(func() { close(started) })
		select {
		case <-ctx.Done():
			return board{}, ctx.Err()
		case <-release:
			return board{version: 7}, nil
		}
	}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := snap.Get(leaderCtx, false, 1000, 60, load)
		leaderErr <- err
	}()
	<-started

	type result struct {
		value board
		err   error
	}
	followerDone := make(chan result, 1)
	go func() {
		value, _, err := snap.Get(context.Background(), false, 1000, 60, load)
		followerDone <- result{value: value, err: err}
	}()

	cancelLeader()
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-followerDone
	if got.err != nil {
		t.Fatalf("follower with live ctx must not fail: %v", got.err)
	}
	if got.value.version != 7 {
		t.Fatalf("unexpected follower value: %+v", got.value)
	}
	if err := <-leaderErr; err != nil {
		t.Fatalf("shared load must not observe leader cancellation: %v", err)
	}
}

func TestSnapshot_SharedLoadIsBounded(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot[board](WithSharedLoadTimeout(20 * time.Millisecond))
	_, _, err := snap.Get(context.Background(), false, 1000, 60, func(ctx context.Context) (board, error) {
		<-ctx.Done()
		return board{}, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, _, ok := snap.Peek(); ok {
		t.Fatalf("failed load must not fill the snapshot")
	}
}
