package flux

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	gfcontext "github.com/vnykmshr/goflux/pkg/common/context"
	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/logging"
	"github.com/vnykmshr/goflux/pkg/metrics"
	"github.com/vnykmshr/goflux/pkg/scheduling/workerpool"
)

// terminal is the part of Subscriber that does not depend on the value type.
type terminal interface {
	OnError(err error)
	OnComplete()
}

const (
	stateActive int32 = iota
	stateCanceled
	stateTerminated
)

// Span attribute keys.
const (
	AttrSequence     = "flux.sequence"
	AttrSubscription = "flux.subscription_id"
)

// Subscription is one independent, one-shot execution of a sequence.
// It is safe for concurrent use.
type Subscription struct {
	id       string
	sequence string
	state    atomic.Int32
	cancel   context.CancelCauseFunc
	done     chan struct{}
	err      error

	logger  zerolog.Logger
	metrics *metrics.Registry
}

// ID returns the unique identifier of the subscription.
func (s *Subscription) ID() string {
	return s.id
}

// Cancel stops the subscription at its next emission point and releases any
// pending timer. It never waits for the subscriber, so it is safe to call from
// inside a callback. A value whose delivery began before Cancel, at most one,
// may still reach OnNext; nothing after it does, and OnComplete and OnError
// are never delivered. Once Done is closed no callback is running or will
// run. Cancel is idempotent and does nothing once the subscription has
// terminated.
func (s *Subscription) Cancel() {
	if !s.state.CompareAndSwap(stateActive, stateCanceled) {
		return
	}
	s.cancel(gferrors.ErrCanceled)

	if s.metrics != nil {
		s.metrics.Signals.WithLabelValues(s.sequence, metrics.SignalCancel).Inc()
	}
	s.logger.Debug().Str(logging.FieldSignal, "cancel").Msg("subscription canceled")
}

// IsCanceled reports whether Cancel stopped the subscription.
func (s *Subscription) IsCanceled() bool {
	return s.state.Load() == stateCanceled
}

// Done returns a channel that is closed once the subscription has terminated
// and its terminal callback, if any, has returned.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns ErrCanceled after Cancel, the failure delivered to OnError
// after a failure, and nil otherwise.
func (s *Subscription) Err() error {
	if s.IsCanceled() {
		return gferrors.ErrCanceled
	}
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the subscription terminates or ctx is done.
func (s *Subscription) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func subscribe[T any](ctx context.Context, name string, src source[T], sub Subscriber[T], opts []Option) *Subscription {
	if ctx == nil {
		ctx = context.Background()
	}
	if sub == nil {
		sub = Callbacks[T]{}
	}
	cfg := newSettings(opts)

	runCtx, cancel := context.WithCancelCause(ctx)
	s := &Subscription{
		id:       uuid.NewString(),
		sequence: name,
		cancel:   cancel,
		done:     make(chan struct{}),
		metrics:  cfg.metrics,
	}
	s.logger = cfg.logger.With().
		Str(logging.FieldSequence, name).
		Str(logging.FieldSubscription, s.id).
		Logger()

	task := workerpool.TaskFunc(func(taskCtx context.Context) error {
		run(taskCtx, s, cfg, src, sub)
		return s.Err()
	})

	if err := cfg.executor.SubmitWithContext(runCtx, task); err != nil {
		s.logger.Debug().Err(err).Msg("subscription rejected by executor")
		s.terminate(err, sub, nil)
	}
	return s
}

// run executes the chain on the executor's goroutine.
func run[T any](ctx context.Context, s *Subscription, cfg settings, src source[T], sub Subscriber[T]) {
	start := time.Now()
	ctx, span := cfg.tracer.Start(ctx, "flux.subscribe", trace.WithAttributes(
		attribute.String(AttrSequence, s.sequence),
		attribute.String(AttrSubscription, s.id),
	))

	m := cfg.metrics
	if m != nil {
		m.SubscriptionsStarted.WithLabelValues(s.sequence).Inc()
		m.SubscriptionsActive.WithLabelValues(s.sequence).Inc()
	}
	s.logger.Debug().Msg("subscribed")

	ex := &execution{
		ctx:       ctx,
		scheduler: cfg.scheduler,
		logger:    s.logger,
		metrics:   m,
		sequence:  s.sequence,
		id:        s.id,
	}

	var downstream error
	var srcErr error
	err := guard("subscribe", func() {
		srcErr = src(ex, func(v T) bool {
			if s.state.Load() != stateActive || !ex.live() {
				return false
			}
			if perr := gferrors.Catch(func() { sub.OnNext(v) }); perr != nil {
				downstream = gferrors.NewOperationError("flux", "onNext", perr)
				return false
			}
			ex.signal(metrics.SignalNext)
			return true
		})
	})

	switch {
	case downstream != nil:
		err = downstream
	case err == nil:
		err = srcErr
	}
	if err == nil {
		err = gfcontext.Cause(ctx)
	}

	s.terminate(err, sub, func(err error) {
		switch {
		case s.IsCanceled():
			span.AddEvent("canceled")
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		default:
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		if m != nil {
			m.SubscriptionsActive.WithLabelValues(s.sequence).Dec()
			m.SubscriptionDuration.WithLabelValues(s.sequence).Observe(time.Since(start).Seconds())
		}
	})
}

// terminate delivers the terminal signal unless the subscription was
// canceled, runs cleanup and closes Done. It is called exactly once.
func (s *Subscription) terminate(err error, sub terminal, cleanup func(error)) {
	defer close(s.done)
	defer s.cancel(nil)

	if !s.state.CompareAndSwap(stateActive, stateTerminated) {
		s.logger.Debug().Msg("terminated after cancel")
		if cleanup != nil {
			cleanup(gferrors.ErrCanceled)
		}
		return
	}
	s.err = err

	if cleanup != nil {
		cleanup(err)
	}

	signal := metrics.SignalComplete
	deliver := sub.OnComplete
	if err != nil {
		signal = metrics.SignalError
		deliver = func() { sub.OnError(err) }
		s.logger.Debug().Err(err).Str(logging.FieldSignal, signal).Msg("subscription failed")
	} else {
		s.logger.Debug().Str(logging.FieldSignal, signal).Msg("subscription completed")
	}
	if s.metrics != nil {
		s.metrics.Signals.WithLabelValues(s.sequence, signal).Inc()
	}

	if perr := gferrors.Catch(deliver); perr != nil {
		s.logger.Error().Err(perr).Str(logging.FieldSignal, signal).Msg("subscriber panicked in terminal callback")
	}
}
