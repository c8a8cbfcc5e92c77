package flux

import (
	"context"
	"time"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
)

// Mono is a cold, lazy sequence of at most one value. It has the same
// subscription semantics as Flux.
type Mono[T any] struct {
	flux *Flux[T]
}

func newMono[T any](f *Flux[T]) *Mono[T] {
	return &Mono[T]{flux: f}
}

// MonoJust creates a Mono that emits exactly v, then completes.
func MonoJust[T any](v T) *Mono[T] {
	return newMono(Single(v).Name("monoJust"))
}

// MonoEmpty creates a Mono that completes without a value.
func MonoEmpty[T any]() *Mono[T] {
	return newMono(Empty[T]().Name("monoEmpty"))
}

// MonoError creates a Mono that fails with err.
func MonoError[T any](err error) *Mono[T] {
	return newMono(Error[T](err).Name("monoError"))
}

// MonoFromSupplier creates a Mono that calls supplier once per subscription,
// on the subscription's executor, and emits its result. A returned error or a
// panic fails the subscription.
func MonoFromSupplier[T any](supplier func() (T, error)) *Mono[T] {
	return newMono(newFlux("monoFromSupplier", func(ex *execution, emit func(T) bool) error {
		var v T
		var serr error
		if err := guard("supplier", func() { v, serr = supplier() }); err != nil {
			return err
		}
		if serr != nil {
			return gferrors.NewOperationError("flux", "supplier", serr)
		}
		emit(v)
		return nil
	}))
}

// Next returns a Mono of the first value of f. The upstream is stopped after it.
func (f *Flux[T]) Next() *Mono[T] {
	return newMono(f.Take(1))
}

// CollectList returns a Mono of all values of f, emitted once f completes.
// An empty f yields an empty, non-nil slice.
func CollectList[T any](f *Flux[T]) *Mono[[]T] {
	return newMono(derive(f, func(ex *execution, emit func([]T) bool) error {
		values := []T{}
		if err := f.src(ex, func(v T) bool {
			values = append(values, v)
			return true
		}); err != nil {
			return err
		}
		if !ex.live() {
			return nil
		}
		emit(values)
		return nil
	}))
}

// Flux returns the Mono as a Flux of zero or one value.
func (m *Mono[T]) Flux() *Flux[T] {
	return m.flux
}

// Name returns a copy of the Mono labeled name.
func (m *Mono[T]) Name(name string) *Mono[T] {
	return newMono(m.flux.Name(name))
}

// Map transforms the value with fn.
func (m *Mono[T]) Map(fn func(T) T) *Mono[T] {
	return newMono(Map(m.flux, fn))
}

// MonoMap transforms the value of m with fn, changing its type.
func MonoMap[T, U any](m *Mono[T], fn func(T) U) *Mono[U] {
	return newMono(Map(m.flux, fn))
}

// Filter turns the Mono empty when predicate rejects its value.
func (m *Mono[T]) Filter(predicate func(T) bool) *Mono[T] {
	return newMono(m.flux.Filter(predicate))
}

// MonoFlatMap subscribes to the Mono fn returns for the value of m.
func MonoFlatMap[T, U any](m *Mono[T], fn func(T) *Mono[U]) *Mono[U] {
	return newMono(FlatMap(m.flux, func(v T) *Flux[U] {
		inner := fn(v)
		if inner == nil {
			return nil
		}
		return inner.flux
	}))
}

// FlatMapMany expands the value of m into the Flux fn returns.
func FlatMapMany[T, U any](m *Mono[T], fn func(T) *Flux[U]) *Flux[U] {
	return FlatMap(m.flux, fn)
}

// DoOnNext calls fn with the value before passing it on.
func (m *Mono[T]) DoOnNext(fn func(T)) *Mono[T] {
	return newMono(m.flux.DoOnNext(fn))
}

// Delay postpones the value by d on the subscription's scheduler.
func (m *Mono[T]) Delay(d time.Duration) *Mono[T] {
	return newMono(m.flux.DelayElements(d))
}

// Log logs the Mono's signals, see Flux.Log.
func (m *Mono[T]) Log(category string) *Mono[T] {
	return newMono(m.flux.Log(category))
}

// Subscribe starts a subscription with optional callbacks and returns immediately.
func (m *Mono[T]) Subscribe(onNext func(T), onError func(error), onComplete func(), opts ...Option) *Subscription {
	return m.flux.Subscribe(onNext, onError, onComplete, opts...)
}

// SubscribeWith starts a subscription delivering to sub.
func (m *Mono[T]) SubscribeWith(ctx context.Context, sub Subscriber[T], opts ...Option) *Subscription {
	return m.flux.SubscribeWith(ctx, sub, opts...)
}

// Block subscribes and waits for the result. ok is false when the Mono
// completed empty or failed.
func (m *Mono[T]) Block(ctx context.Context, opts ...Option) (value T, ok bool, err error) {
	sub := m.SubscribeWith(ctx, Callbacks[T]{
		Next: func(v T) { value, ok = v, true },
	}, opts...)
	<-sub.Done()
	if err = sub.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	return value, ok, nil
}
