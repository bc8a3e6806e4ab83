package session

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// gate is the single-holder lock serializing all access to the browser
// handle, including the background keep-alive refresh. It is built on a
// weighted semaphore of size one: waiters queue in FIFO order, which
// keeps contended acquisition starvation-free. Not reentrant -- a holder
// must release before acquiring again.
type gate struct {
	sem *semaphore.Weighted
}

func newGate() *gate {
	return &gate{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the caller becomes the sole holder, or returns
// the context error if ctx is done first.
func (g *gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release hands the gate to the next waiter, if any. Must be called
// exactly once per successful Acquire.
func (g *gate) Release() {
	g.sem.Release(1)
}

// TryAcquire acquires the gate without blocking, reporting success.
func (g *gate) TryAcquire() bool {
	return g.sem.TryAcquire(1)
}
