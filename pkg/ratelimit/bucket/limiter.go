package bucket

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// Limit represents the maximum frequency of events per second.
// A zero Limit allows only the initial tokens. Use Inf for unlimited rates.
type Limit float64

// Inf is the infinite rate limit; it allows all events.
var Inf = Limit(math.Inf(1))

// ErrExhausted is returned by WaitN when the rate is zero and the bucket
// cannot cover the request.
var ErrExhausted = errors.New("bucket: no tokens left and rate is zero")

// Every converts a minimum time interval between events to a Limit.
func Every(interval time.Duration) Limit {
	if interval <= 0 {
		return Inf
	}
	return Limit(time.Second) / Limit(interval)
}

// Limiter paces events with a token bucket. Tokens refill at Limit per
// second up to Burst, so up to Burst events may pass back to back.
type Limiter interface {
	// Allow reports whether an event may happen now. It does not block.
	Allow() bool

	// AllowN reports whether n events may happen now. It does not block.
	AllowN(n int) bool

	// Wait blocks until an event can happen or ctx is done.
	Wait(ctx context.Context) error

	// WaitN blocks until n events can happen or ctx is done. Tokens taken
	// for a wait that is interrupted are returned to the bucket.
	WaitN(ctx context.Context, n int) error

	// Limit returns the refill rate.
	Limit() Limit

	// Burst returns the bucket capacity.
	Burst() int

	// Tokens returns the number of tokens currently available.
	Tokens() float64
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// Rate is the number of tokens added per second.
	Rate Limit

	// Burst is the maximum number of tokens that can be stored.
	Burst int

	// Scheduler supplies the clock and the timers Wait sleeps on.
	// If nil, the wall clock is used.
	Scheduler scheduler.Scheduler

	// InitialTokens is the number of tokens to start with.
	// If negative, starts with full capacity.
	InitialTokens int
}

// tokenBucket implements the Limiter interface using a token bucket algorithm.
type tokenBucket struct {
	mu         sync.Mutex
	limit      Limit
	burst      int
	tokens     float64
	lastUpdate time.Time
	sched      scheduler.Scheduler
}

// New creates a full limiter on the wall clock.
func New(rate Limit, burst int) (Limiter, error) {
	return NewWithConfig(Config{
		Rate:          rate,
		Burst:         burst,
		InitialTokens: -1,
	})
}

// NewWithConfig creates a limiter from config.
func NewWithConfig(config Config) (Limiter, error) {
	if config.Rate < 0 || math.IsNaN(float64(config.Rate)) {
		return nil, gferrors.NewValidationError("bucket", "rate", config.Rate, "rate cannot be negative").
			WithHint("use 0 to allow only the initial tokens or bucket.Inf for no limit")
	}
	if config.Burst <= 0 {
		return nil, gferrors.NewValidationError("bucket", "burst", config.Burst, "burst must be positive").
			WithHint("burst determines how many tokens can be consumed instantly")
	}
	if config.Scheduler == nil {
		config.Scheduler = scheduler.New()
	}

	initialTokens := float64(config.InitialTokens)
	if config.InitialTokens < 0 || config.InitialTokens > config.Burst {
		initialTokens = float64(config.Burst)
	}

	return &tokenBucket{
		limit:      config.Rate,
		burst:      config.Burst,
		tokens:     initialTokens,
		lastUpdate: config.Scheduler.Now(),
		sched:      config.Scheduler,
	}, nil
}
