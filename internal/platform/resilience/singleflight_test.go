package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("token-key", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_PanicReleasesWaiters(t *testing.T) {
	var g SingleFlight
	entered := make(chan struct{})
	release := make(chan struct{})

	leaderErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do("key", func() (any, error) {
			close(entered)
			<-release
			panic("boom")
		})
		leaderErr <- err
	}()
	<-entered

	followerErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do("key", func() (any, error) { return "fresh", nil })
		followerErr <- err
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)

	select {
	case err := <-leaderErr:
		if err == nil {
			t.Fatalf("expected panic reported as error")
		}
	case <-time.After(time.Second):
		t.Fatalf("leader blocked after panic")
	}
	select {
	case <-followerErr:
	case <-time.After(time.Second):
		t.Fatalf("follower blocked after panic")
	}

	val, err, shared := g.Do("key", func() (any, error) { return "next", nil })
	if err != nil || shared || val != "next" {
		t.Fatalf("key must be free after panic: val=%v err=%v shared=%v", val, err, shared)
	}
}
