package flux

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/common/validation"
	"github.com/vnykmshr/goflux/pkg/ratelimit/bucket"
	"github.com/vnykmshr/goflux/pkg/ratelimit/concurrency"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// errStopped cancels inner work once downstream no longer accepts values.
var errStopped = errors.New("flux: downstream stopped")

// through subscribes src and hands each value to step. A step error stops
// src and is returned in place of src's own result.
func through[T any](src source[T], ex *execution, step func(T) (bool, error)) error {
	var failure error
	err := src(ex, func(v T) bool {
		more, err := step(v)
		if err != nil {
			failure = err
			return false
		}
		return more
	})
	if failure != nil {
		return failure
	}
	return err
}

// Map transforms every value of f with fn. A panic in fn fails the sequence.
func Map[T, U any](f *Flux[T], fn func(T) U) *Flux[U] {
	return derive(f, func(ex *execution, emit func(U) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			u, err := apply("map", fn, v)
			if err != nil {
				return false, err
			}
			return emit(u), nil
		})
	})
}

// MapErr is Map for functions that can fail. The first error fails the sequence.
func MapErr[T, U any](f *Flux[T], fn func(T) (U, error)) *Flux[U] {
	return derive(f, func(ex *execution, emit func(U) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			var u U
			var ferr error
			if err := guard("map", func() { u, ferr = fn(v) }); err != nil {
				return false, err
			}
			if ferr != nil {
				return false, gferrors.NewOperationError("flux", "map", ferr)
			}
			return emit(u), nil
		})
	})
}

// Map transforms every value with fn, keeping the element type. Use the
// package-level Map to change it.
func (f *Flux[T]) Map(fn func(T) T) *Flux[T] {
	return Map(f, fn)
}

// Filter emits only the values for which predicate returns true, in order.
func (f *Flux[T]) Filter(predicate func(T) bool) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			keep, err := apply("filter", predicate, v)
			if err != nil {
				return false, err
			}
			if !keep {
				return true, nil
			}
			return emit(v), nil
		})
	})
}

// FlatMap replaces every value of f with the values of the Flux fn returns
// for it. Inner sequences are subscribed one at a time in upstream order, so
// the output is their concatenation. A nil inner Flux is treated as empty.
func FlatMap[T, U any](f *Flux[T], fn func(T) *Flux[U]) *Flux[U] {
	return derive(f, func(ex *execution, emit func(U) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			inner, err := apply("flatMap", fn, v)
			if err != nil {
				return false, err
			}
			if inner == nil {
				return true, nil
			}

			stopped := false
			err = inner.src(ex, func(u U) bool {
				if !emit(u) {
					stopped = true
					return false
				}
				return true
			})
			if err != nil {
				return false, err
			}
			return !stopped && ex.live(), nil
		})
	})
}

// FlatMap is FlatMap keeping the element type.
func (f *Flux[T]) FlatMap(fn func(T) *Flux[T]) *Flux[T] {
	return FlatMap(f, fn)
}

// FlatMapConcurrent is FlatMap with up to maxActive inner sequences active
// at once. Values are emitted in the order inner sequences produce them,
// still one at a time. The first failure cancels every other inner sequence.
// A non-positive maxActive fails the subscription with a ValidationError.
func FlatMapConcurrent[T, U any](f *Flux[T], maxActive int, fn func(T) *Flux[U]) *Flux[U] {
	return derive(f, func(ex *execution, emit func(U) bool) error {
		if err := validation.ValidatePositive("flux", "concurrency", maxActive); err != nil {
			return err
		}
		limiter, err := concurrency.New(maxActive)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancelCause(ex.ctx)
		defer cancel(nil)
		scoped := *ex
		scoped.ctx = ctx

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			failure error
			stopped bool
		)

		fail := func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if failure == nil && !stopped {
				failure = err
			}
			cancel(err)
		}

		serialized := func(u U) bool {
			mu.Lock()
			defer mu.Unlock()
			if stopped || failure != nil || !scoped.live() {
				return false
			}
			if !emit(u) {
				stopped = true
				cancel(errStopped)
				return false
			}
			return true
		}

		upErr := through(f.src, &scoped, func(v T) (bool, error) {
			if err := limiter.Wait(ctx); err != nil {
				return false, nil
			}

			inner, err := apply("flatMap", fn, v)
			if err != nil || inner == nil {
				limiter.Release()
				return err == nil, err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer limiter.Release()

				var innerErr error
				if perr := guard("flatMap", func() { innerErr = inner.src(&scoped, serialized) }); perr != nil {
					innerErr = perr
				}
				if innerErr != nil {
					fail(innerErr)
				}
			}()
			return true, nil
		})
		if upErr != nil {
			fail(upErr)
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return nil
		}
		return failure
	})
}

// DelayEach waits selector() on the subscription's scheduler before emitting
// each value. The subscribing goroutine is never blocked, completion follows
// the last delayed value, and canceling stops the pending timer.
func (f *Flux[T]) DelayEach(selector func() time.Duration) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			var d time.Duration
			if selector != nil {
				if err := guard("delayEach", func() { d = selector() }); err != nil {
					return false, err
				}
			}
			if ex.metrics != nil {
				ex.metrics.DelayDuration.WithLabelValues(ex.sequence).Observe(d.Seconds())
			}
			if err := scheduler.Sleep(ex.ctx, ex.scheduler, d); err != nil {
				return false, err
			}
			return emit(v), nil
		})
	})
}

// DelayElements delays every value by d.
func (f *Flux[T]) DelayElements(d time.Duration) *Flux[T] {
	return f.DelayEach(func() time.Duration { return d })
}

// Throttle paces values with a token bucket on the subscription's
// scheduler: up to burst values pass at once, then rate per second. Each
// subscription gets its own bucket. With a zero rate the sequence fails
// with bucket.ErrExhausted once the burst is spent.
func (f *Flux[T]) Throttle(rate bucket.Limit, burst int) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		limiter, err := bucket.NewWithConfig(bucket.Config{
			Rate:          rate,
			Burst:         burst,
			Scheduler:     ex.scheduler,
			InitialTokens: -1,
		})
		if err != nil {
			return err
		}
		return through(f.src, ex, func(v T) (bool, error) {
			if err := limiter.Wait(ex.ctx); err != nil {
				return false, err
			}
			return emit(v), nil
		})
	})
}

// Take emits the first n values, then completes and stops the upstream.
func (f *Flux[T]) Take(n int) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		if n <= 0 {
			return nil
		}
		taken := 0
		return f.src(ex, func(v T) bool {
			taken++
			return emit(v) && taken < n
		})
	})
}

// Skip drops the first n values.
func (f *Flux[T]) Skip(n int) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		skipped := 0
		return f.src(ex, func(v T) bool {
			if skipped < n {
				skipped++
				return true
			}
			return emit(v)
		})
	})
}

// DoOnNext calls fn with every value before passing it on.
func (f *Flux[T]) DoOnNext(fn func(T)) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		return through(f.src, ex, func(v T) (bool, error) {
			if err := guard("doOnNext", func() { fn(v) }); err != nil {
				return false, err
			}
			return emit(v), nil
		})
	})
}

// Sorted buffers every value and emits them ordered by less once the
// upstream completes.
func (f *Flux[T]) Sorted(less func(a, b T) bool) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		var buf []T
		if err := f.src(ex, func(v T) bool {
			buf = append(buf, v)
			return true
		}); err != nil {
			return err
		}
		if err := guard("sorted", func() { slices.SortFunc(buf, less) }); err != nil {
			return err
		}
		for _, v := range buf {
			if !emit(v) {
				return nil
			}
		}
		return nil
	})
}

// Distinct drops values equal to one already emitted.
func Distinct[T comparable](f *Flux[T]) *Flux[T] {
	return derive(f, func(ex *execution, emit func(T) bool) error {
		seen := make(map[T]struct{})
		return f.src(ex, func(v T) bool {
			if _, ok := seen[v]; ok {
				return true
			}
			seen[v] = struct{}{}
			return emit(v)
		})
	})
}

// Subscribe starts a subscription with optional callbacks and returns
// immediately. Values and the terminal signal arrive on the executor's goroutine.
func (f *Flux[T]) Subscribe(onNext func(T), onError func(error), onComplete func(), opts ...Option) *Subscription {
	return f.SubscribeWith(context.Background(), Callbacks[T]{
		Next:     onNext,
		Error:    onError,
		Complete: onComplete,
	}, opts...)
}

// SubscribeWith starts a subscription delivering to sub. Canceling ctx fails
// the subscription with the context's cause; Subscription.Cancel stops it silently.
func (f *Flux[T]) SubscribeWith(ctx context.Context, sub Subscriber[T], opts ...Option) *Subscription {
	return subscribe(ctx, f.name, f.src, sub, opts)
}

// ToSlice subscribes, waits for termination and returns every emitted value.
func (f *Flux[T]) ToSlice(ctx context.Context, opts ...Option) ([]T, error) {
	var values []T
	sub := f.SubscribeWith(ctx, Callbacks[T]{
		Next: func(v T) { values = append(values, v) },
	}, opts...)
	<-sub.Done()
	return values, sub.Err()
}
