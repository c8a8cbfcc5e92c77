package concurrency

import (
	"context"
	"sync"

	"github.com/vnykmshr/goflux/pkg/common/errors"
)

// Limiter bounds the number of operations in flight. It is a counting
// semaphore whose waits honor a context.
type Limiter interface {
	// Acquire takes one permit if one is free. It does not block.
	Acquire() bool

	// Wait blocks until a permit is free or ctx is done, in which case the
	// context cause is returned and no permit is held.
	Wait(ctx context.Context) error

	// WaitN is Wait for n permits taken together.
	WaitN(ctx context.Context, n int) error

	// Release returns one permit.
	// It panics if more permits are released than were acquired.
	Release()

	// ReleaseN returns n permits.
	ReleaseN(n int)

	// Capacity returns the maximum number of permits.
	Capacity() int

	// Available returns the number of free permits.
	Available() int

	// InUse returns the number of permits currently held.
	InUse() int
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// Capacity is the maximum number of concurrent operations allowed.
	Capacity int

	// InitialAvailable is the initial number of free permits.
	// If negative or greater than Capacity, defaults to Capacity.
	InitialAvailable int
}

// concurrencyLimiter implements Limiter with a FIFO queue of waiters.
type concurrencyLimiter struct {
	mu        sync.Mutex
	capacity  int
	available int
	inUse     int
	waiters   []*waiter
}

// waiter is a goroutine blocked in WaitN.
type waiter struct {
	n     int
	ready chan struct{} // closed once the permits are granted
}

// New creates a limiter with capacity free permits.
func New(capacity int) (Limiter, error) {
	return NewWithConfig(Config{
		Capacity:         capacity,
		InitialAvailable: -1,
	})
}

// NewWithConfig creates a limiter from config.
func NewWithConfig(config Config) (Limiter, error) {
	if config.Capacity <= 0 {
		return nil, errors.NewValidationError("concurrency", "capacity", config.Capacity, "capacity must be positive").
			WithHint("capacity determines how many concurrent operations are allowed")
	}

	available := config.InitialAvailable
	if available < 0 || available > config.Capacity {
		available = config.Capacity
	}

	return &concurrencyLimiter{
		capacity:  config.Capacity,
		available: available,
		inUse:     config.Capacity - available,
	}, nil
}
