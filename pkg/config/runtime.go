package config

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vnykmshr/goflux/pkg/logging"
	"github.com/vnykmshr/goflux/pkg/metrics"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
	"github.com/vnykmshr/goflux/pkg/scheduling/workerpool"
	"github.com/vnykmshr/goflux/pkg/streaming/flux"
)

// Runtime is the set of shared components subscriptions run with.
type Runtime struct {
	Config    Config
	Executor  workerpool.Executor
	Pool      workerpool.Pool // nil when Executor is the spawner
	Scheduler scheduler.Scheduler
	Logger    zerolog.Logger
	Metrics   *metrics.Registry        // nil when metrics are disabled
	Tracer    *sdktrace.TracerProvider // nil when tracing is disabled
}

type buildSettings struct {
	registerer prometheus.Registerer
	processors []sdktrace.SpanProcessor
	logWriter  io.Writer
}

// BuildOption customizes Build.
type BuildOption func(*buildSettings)

// WithRegisterer sets where metrics are registered.
// Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) BuildOption {
	return func(b *buildSettings) { b.registerer = reg }
}

// WithSpanProcessor attaches a span processor (an exporter pipeline, or a
// recorder in tests) to the tracer provider.
func WithSpanProcessor(sp sdktrace.SpanProcessor) BuildOption {
	return func(b *buildSettings) { b.processors = append(b.processors, sp) }
}

// WithLogWriter overrides the log output selected by Config.Log.Output.
func WithLogWriter(w io.Writer) BuildOption {
	return func(b *buildSettings) { b.logWriter = w }
}

// Build assembles a Runtime from cfg. Close must be called to release it.
func Build(cfg Config, opts ...BuildOption) (*Runtime, error) {
	b := buildSettings{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&b)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg}

	if b.logWriter != nil {
		rt.Logger = logging.NewWithWriter(cfg.Log, b.logWriter)
	} else {
		rt.Logger = logging.New(cfg.Log)
	}

	if cfg.Metrics.Enabled {
		rt.Metrics = metrics.NewRegistryWithConfig(metrics.Config{
			Enabled:   true,
			Registry:  b.registerer,
			Namespace: cfg.Metrics.Namespace,
			Labels:    prometheus.Labels(cfg.Metrics.Labels),
		})
	}

	loc, err := cfg.location()
	if err != nil {
		return nil, err
	}
	rt.Scheduler = scheduler.NewWithConfig(scheduler.Config{Location: loc})

	if cfg.Pool.Workers > 0 {
		pool, err := workerpool.NewWithMetrics(workerpool.Config{
			Name:        cfg.Pool.Name,
			WorkerCount: cfg.Pool.Workers,
			QueueSize:   cfg.Pool.QueueSize,
			TaskTimeout: cfg.Pool.TaskTimeout,
			PanicHandler: func(task workerpool.Task, r interface{}) {
				rt.Logger.Error().
					Str(logging.FieldComponent, "workerpool").
					Interface("panic", r).
					Msg("task panicked")
			},
		}, rt.Metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to build worker pool: %w", err)
		}
		rt.Pool = pool
		rt.Executor = pool
	} else {
		rt.Executor = workerpool.Spawner{}
	}

	if cfg.Tracing.Enabled {
		tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sampler(cfg.Tracing.SampleRate))}
		for _, sp := range b.processors {
			tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
		}
		rt.Tracer = sdktrace.NewTracerProvider(tpOpts...)
	}

	rt.Logger.Debug().
		Str(logging.FieldComponent, "config").
		Int("workers", cfg.Pool.Workers).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("runtime built")

	return rt, nil
}

// Options returns the flux options that run subscriptions on this runtime.
func (r *Runtime) Options() []flux.Option {
	opts := []flux.Option{
		flux.WithExecutor(r.Executor),
		flux.WithScheduler(r.Scheduler),
		flux.WithLogger(logging.Component(r.Logger, "flux")),
	}
	if r.Metrics != nil {
		opts = append(opts, flux.WithMetrics(r.Metrics))
	}
	if r.Tracer != nil {
		opts = append(opts, flux.WithTracer(r.Tracer.Tracer(flux.TracerName)))
	}
	return opts
}

// Close drains the worker pool and flushes the tracer provider. It gives up
// waiting for the pool when ctx is done.
func (r *Runtime) Close(ctx context.Context) error {
	if r.Pool != nil {
		select {
		case <-r.Pool.Shutdown():
		case <-ctx.Done():
			return fmt.Errorf("worker pool did not drain: %w", context.Cause(ctx))
		}
	}
	if r.Tracer != nil {
		if err := r.Tracer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down tracer provider: %w", err)
		}
	}
	return nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}
