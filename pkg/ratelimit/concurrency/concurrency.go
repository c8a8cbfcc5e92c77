package concurrency

import (
	"context"
)

func (cl *concurrencyLimiter) Acquire() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if len(cl.waiters) == 0 && cl.available >= 1 {
		cl.take(1)
		return true
	}
	return false
}

func (cl *concurrencyLimiter) Wait(ctx context.Context) error {
	return cl.WaitN(ctx, 1)
}

func (cl *concurrencyLimiter) WaitN(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	cl.mu.Lock()
	if len(cl.waiters) == 0 && cl.available >= n {
		cl.take(n)
		cl.mu.Unlock()
		return nil
	}
	w := &waiter{n: n, ready: make(chan struct{})}
	cl.waiters = append(cl.waiters, w)
	cl.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		cl.abandon(w)
		return context.Cause(ctx)
	}
}

func (cl *concurrencyLimiter) Release() {
	cl.ReleaseN(1)
}

func (cl *concurrencyLimiter) ReleaseN(n int) {
	if n <= 0 {
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.inUse < n {
		panic("concurrency: released more permits than acquired")
	}
	cl.available += n
	cl.inUse -= n
	cl.grant()
}

func (cl *concurrencyLimiter) Capacity() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.capacity
}

func (cl *concurrencyLimiter) Available() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.available
}

func (cl *concurrencyLimiter) InUse() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.inUse
}

// take moves n permits from available to in use. cl.mu must be held.
func (cl *concurrencyLimiter) take(n int) {
	cl.available -= n
	cl.inUse += n
}

// grant hands free permits to queued waiters in arrival order.
// cl.mu must be held.
func (cl *concurrencyLimiter) grant() {
	for len(cl.waiters) > 0 {
		w := cl.waiters[0]
		if cl.available < w.n {
			return
		}
		cl.take(w.n)
		close(w.ready)
		cl.waiters = cl.waiters[1:]
	}
}

// abandon removes a waiter whose context ended. If its permits were
// granted concurrently they are handed back.
func (cl *concurrencyLimiter) abandon(w *waiter) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	for i, q := range cl.waiters {
		if q == w {
			cl.waiters = append(cl.waiters[:i], cl.waiters[i+1:]...)
			// A smaller waiter behind w may fit now.
			cl.grant()
			return
		}
	}

	// Already granted: the caller never sees these permits.
	cl.available += w.n
	cl.inUse -= w.n
	cl.grant()
}
