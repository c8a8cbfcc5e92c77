package flux

import (
	"context"

	"github.com/rs/zerolog"

	gfcontext "github.com/vnykmshr/goflux/pkg/common/context"
	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/metrics"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// Flux is a cold, lazy sequence of zero or more values of type T.
//
// A Flux only describes how values are produced. Nothing runs until a
// subscriber attaches, and every subscription re-runs the whole chain from
// the root producer. Operators return a new Flux and never modify the receiver,
// so a Flux can be shared and subscribed any number of times.
type Flux[T any] struct {
	name string
	src  source[T]
}

// source produces values into emit until it is exhausted, emit returns false,
// or it fails. It returns nil when it completes or is stopped by emit.
type source[T any] func(ex *execution, emit func(T) bool) error

// execution is the state of one subscription, shared by every operator in the chain.
type execution struct {
	ctx       context.Context
	scheduler scheduler.Scheduler
	logger    zerolog.Logger
	metrics   *metrics.Registry
	sequence  string
	id        string
}

// live reports whether the subscription may still produce values.
func (ex *execution) live() bool {
	return !gfcontext.IsCanceled(ex.ctx)
}

// cause returns the reason production was stopped, or nil while live.
func (ex *execution) cause() error {
	return gfcontext.Cause(ex.ctx)
}

func (ex *execution) signal(signal string) {
	if ex.metrics != nil {
		ex.metrics.Signals.WithLabelValues(ex.sequence, signal).Inc()
	}
}

const defaultName = "flux"

func newFlux[T any](name string, src source[T]) *Flux[T] {
	return &Flux[T]{name: name, src: src}
}

// derive builds a new Flux that keeps the receiver's name.
func derive[T, U any](f *Flux[T], src source[U]) *Flux[U] {
	return newFlux(f.name, src)
}

// Name returns a copy of the sequence labeled name in logs, metrics and spans.
func (f *Flux[T]) Name(name string) *Flux[T] {
	return newFlux(name, f.src)
}

// SequenceName returns the label set by Name, or the factory's default.
func (f *Flux[T]) SequenceName() string {
	return f.name
}

// guard runs fn and converts a panic into an OperationError for op.
func guard(op string, fn func()) error {
	if err := gferrors.Catch(fn); err != nil {
		return gferrors.NewOperationError("flux", op, err)
	}
	return nil
}

// apply calls fn(v) under guard.
func apply[T, R any](op string, fn func(T) R, v T) (r R, err error) {
	err = guard(op, func() { r = fn(v) })
	return r, err
}
