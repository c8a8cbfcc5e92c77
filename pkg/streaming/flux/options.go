package flux

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vnykmshr/goflux/pkg/metrics"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
	"github.com/vnykmshr/goflux/pkg/scheduling/workerpool"
)

// TracerName is the instrumentation name of the default tracer.
const TracerName = "github.com/vnykmshr/goflux/pkg/streaming/flux"

var defaultScheduler = scheduler.New()

// Option configures a single subscription.
type Option func(*settings)

type settings struct {
	executor  workerpool.Executor
	scheduler scheduler.Scheduler
	logger    zerolog.Logger
	metrics   *metrics.Registry
	tracer    trace.Tracer
}

func newSettings(opts []Option) settings {
	s := settings{
		executor:  workerpool.Spawner{},
		scheduler: defaultScheduler,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(TracerName)
	}
	return s
}

// WithExecutor runs the subscription on e instead of a dedicated goroutine.
// A workerpool.Pool bounds how many subscriptions run at once.
func WithExecutor(e workerpool.Executor) Option {
	return func(s *settings) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithScheduler sets the clock and timers used by delays, Interval and FromCron.
func WithScheduler(sch scheduler.Scheduler) Option {
	return func(s *settings) {
		if sch != nil {
			s.scheduler = sch
		}
	}
}

// WithLogger enables subscription lifecycle logs and the output of Log operators.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetrics records subscriptions, signals and delays in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *settings) {
		s.metrics = reg
	}
}

// WithTracer records one span per subscription with t.
// Without it the global OpenTelemetry tracer provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}
