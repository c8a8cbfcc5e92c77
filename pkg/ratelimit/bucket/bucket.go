package bucket

import (
	"context"
	"math"
	"time"

	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// reservation records tokens taken ahead of time.
type reservation struct {
	ok     bool
	delay  time.Duration
	tokens int
}

func (tb *tokenBucket) Allow() bool {
	return tb.AllowN(1)
}

func (tb *tokenBucket) AllowN(n int) bool {
	return tb.reserveN(n, 0).ok
}

func (tb *tokenBucket) Wait(ctx context.Context) error {
	return tb.WaitN(ctx, 1)
}

func (tb *tokenBucket) WaitN(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}

	r := tb.reserveN(n, math.MaxInt64)
	if !r.ok {
		return ErrExhausted
	}

	// Sleep returns the context cause for a zero delay once ctx is done.
	if err := scheduler.Sleep(ctx, tb.sched, r.delay); err != nil {
		tb.restore(r)
		return err
	}
	return nil
}

func (tb *tokenBucket) Limit() Limit {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limit
}

func (tb *tokenBucket) Burst() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.burst
}

func (tb *tokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.sched.Now())
	return tb.tokens
}

// reserveN takes n tokens if they are available within maxWait.
// Tokens may go negative; the debt is the caller's delay.
func (tb *tokenBucket) reserveN(n int, maxWait time.Duration) reservation {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if n <= 0 || tb.limit == Inf {
		return reservation{ok: true}
	}

	tb.refill(tb.sched.Now())

	if tb.tokens >= float64(n) {
		tb.tokens -= float64(n)
		return reservation{ok: true, tokens: n}
	}
	if tb.limit == 0 {
		return reservation{}
	}

	missing := float64(n) - tb.tokens
	wait := durationOf(missing / float64(tb.limit))
	if wait > maxWait {
		return reservation{}
	}

	tb.tokens -= float64(n)
	return reservation{ok: true, delay: wait, tokens: n}
}

// refill adds tokens for the time elapsed since the last update.
func (tb *tokenBucket) refill(now time.Time) {
	if tb.limit == Inf {
		tb.tokens = float64(tb.burst)
		tb.lastUpdate = now
		return
	}

	elapsed := now.Sub(tb.lastUpdate)
	if elapsed <= 0 {
		return
	}
	tb.lastUpdate = now
	if tb.limit == 0 {
		return
	}

	tb.tokens = math.Min(tb.tokens+elapsed.Seconds()*float64(tb.limit), float64(tb.burst))
}

// restore hands back the tokens of an abandoned reservation.
func (tb *tokenBucket) restore(r reservation) {
	if !r.ok || r.tokens == 0 {
		return
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.sched.Now())
	tb.tokens = math.Min(tb.tokens+float64(r.tokens), float64(tb.burst))
}

// durationOf converts seconds to a Duration, saturating at the largest one.
func durationOf(seconds float64) time.Duration {
	ns := seconds * float64(time.Second)
	if ns >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(ns)
}
