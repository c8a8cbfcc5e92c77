package scheduler

import (
	"context"
	"time"

	gfcontext "github.com/vnykmshr/goflux/pkg/common/context"
)

// Timer is a single pending delay.
type Timer interface {
	// C delivers the fire time once the delay has elapsed.
	C() <-chan time.Time

	// Stop prevents the timer from firing and releases it.
	// It returns false if the timer already fired or was stopped.
	Stop() bool
}

// Scheduler supplies the clock and timers that delayed sequences wait on.
// Implementations must be safe for concurrent use.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// NewTimer starts a timer that fires after d.
	NewTimer(d time.Duration) Timer

	// Location is the time zone cron expressions are evaluated in.
	Location() *time.Location
}

// Config holds scheduler configuration.
type Config struct {
	Location *time.Location // For cron scheduling (default: time.Local)
}

// scheduler is the wall-clock implementation backed by time.Timer.
type scheduler struct {
	location *time.Location
}

// New creates a wall-clock scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a wall-clock scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	return &scheduler{location: location}
}

func (s *scheduler) Now() time.Time {
	return time.Now().In(s.location)
}

func (s *scheduler) NewTimer(d time.Duration) Timer {
	return &wallTimer{t: time.NewTimer(d)}
}

func (s *scheduler) Location() *time.Location {
	return s.location
}

type wallTimer struct {
	t *time.Timer
}

func (w *wallTimer) C() <-chan time.Time {
	return w.t.C
}

func (w *wallTimer) Stop() bool {
	return w.t.Stop()
}

// Sleep waits until d has elapsed on s or ctx is done, whichever comes first.
// When ctx wins the pending timer is stopped and the cancellation cause is returned.
// A non-positive d does not start a timer.
func Sleep(ctx context.Context, s Scheduler, d time.Duration) error {
	if d <= 0 {
		return gfcontext.Cause(ctx)
	}

	timer := s.NewTimer(d)
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		timer.Stop()
		return context.Cause(ctx)
	}
}
