package discovery

import (
	"sync"
	"sync/atomic"
)

// resolveOnce memoizes the result of a computation that must run at most
// once per process lifetime. Unlike sync.Once it hands the memoized value
// back to every caller, and unlike a bare flag it makes the state machine
// explicit: unresolved, then resolving (single flight, other callers
// block), then resolved (lock-free reads).
type resolveOnce[T any] struct {
	done atomic.Bool
	mu   sync.Mutex
	val  T
}

// resolve returns the memoized value, invoking fn to produce it exactly
// once. Callers arriving during the first invocation block until it
// completes and then observe the same value; callers arriving after it
// never take the lock.
func (o *resolveOnce[T]) resolve(fn func() T) T {
	if o.done.Load() {
		return o.val
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.done.Load() {
		o.val = fn()
		o.done.Store(true)
	}
	return o.val
}

// resolved reports whether the computation has completed.
func (o *resolveOnce[T]) resolved() bool { return o.done.Load() }
