package resilience

import (
	"fmt"
	"sync"
)

// Group deduplicates concurrent calls that share a key. Callers arriving while
// a call is in flight wait for it and receive its result.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

type call[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
}

// Do runs fn once per in-flight key. shared reports whether the result came
// from another caller's run. A panic in fn is returned as an error to every
// waiter.
func (g *Group[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err, false
}

func (g *Group[T]) run(key string, c *call[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			c.err = fmt.Errorf("call %q panicked: %v", key, r)
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		c.wg.Done()
	}()
	c.val, c.err = fn()
}
