package ledger

import "sync"

// Clock exposes the host chain's current block height. The core never
// advances it; progression belongs to the host environment. Heights are
// used three ways: stamped into records at write time, folded into absolute
// expiries (now + delta) at write time, and compared at read time for
// validity predicates.
type Clock interface {
	Height() uint64
}

// Counter is the in-process Clock used outside a real ledger. It only moves
// forward; there is no way to rewind a height once observed.
type Counter struct {
	mu     sync.RWMutex
	height uint64
}

// NewCounter starts the counter at the given genesis height.
func NewCounter(genesis uint64) *Counter {
	return &Counter{height: genesis}
}

func (c *Counter) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// Advance moves the counter forward by delta blocks and returns the new
// height. A zero delta is a no-op that still returns the current height.
func (c *Counter) Advance(delta uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += delta
	return c.height
}
