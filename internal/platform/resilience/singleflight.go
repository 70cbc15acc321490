package resilience

import (
	"fmt"
	"sync"
)

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Do runs fn once per key among concurrent callers. A panic in fn is
// recovered and reported to every caller as an error, and the key is freed.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err, false
}

func (g *SingleFlight) run(key string, c *call, fn func() (any, error)) {
	defer func() {
		if r := recover(); r != nil {
			c.val, c.err = nil, fmt.Errorf("singleflight %q: panic: %v", key, r)
		}
		g.mu.Lock()
		if g.calls[key] == c {
			delete(g.calls, key)
		}
		g.mu.Unlock()
		c.wg.Done()
	}()

	c.val, c.err = fn()
}
