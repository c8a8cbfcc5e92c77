package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// ManualScheduler implements scheduler.Scheduler with controllable time.
// Timers fire only when Advance moves the clock past their deadline, so tests
// of delayed sequences never sleep.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	s    *ManualScheduler
	at   time.Time
	c    chan time.Time
	done bool
}

// NewManualScheduler creates a ManualScheduler starting at the given time.
// If zero time is provided, uses current time.
func NewManualScheduler(start time.Time) *ManualScheduler {
	if start.IsZero() {
		start = time.Now()
	}
	return &ManualScheduler{now: start}
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Location returns the location of the virtual clock.
func (m *ManualScheduler) Location() *time.Location {
	return m.Now().Location()
}

// NewTimer registers a timer that fires once the clock reaches Now()+d.
func (m *ManualScheduler) NewTimer(d time.Duration) scheduler.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{s: m, at: m.now.Add(d), c: make(chan time.Time, 1)}
	if d <= 0 {
		t.done = true
		t.c <- m.now
		return t
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every timer now due.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	pending := m.timers[:0]
	for _, t := range m.timers {
		if t.at.After(m.now) {
			pending = append(pending, t)
			continue
		}
		t.done = true
		t.c <- m.now
	}
	m.timers = pending
}

// Set moves the clock to a specific time without firing timers.
func (m *ManualScheduler) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// WaitForTimers blocks until at least n timers are pending.
func (m *ManualScheduler) WaitForTimers(t *testing.T, n int) {
	t.Helper()
	Eventually(t, func() bool { return m.Pending() >= n }, TestTimeout, time.Millisecond)
}

func (t *manualTimer) C() <-chan time.Time {
	return t.c
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, other := range t.s.timers {
		if other == t {
			t.s.timers = append(t.s.timers[:i], t.s.timers[i+1:]...)
			break
		}
	}
	return true
}
