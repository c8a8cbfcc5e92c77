package flux

import (
	"fmt"
	"iter"
	"math"
	"time"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/common/validation"
	"github.com/vnykmshr/goflux/pkg/scheduling/scheduler"
)

// FromSlice creates a Flux that emits items in order, then completes.
// The slice is read at subscription time, not copied.
func FromSlice[T any](items []T) *Flux[T] {
	return newFlux("fromSlice", func(_ *execution, emit func(T) bool) error {
		for _, v := range items {
			if !emit(v) {
				return nil
			}
		}
		return nil
	})
}

// Just creates a Flux of the given values.
func Just[T any](values ...T) *Flux[T] {
	return FromSlice(values).Name("just")
}

// Single creates a Flux that emits exactly v, then completes.
func Single[T any](v T) *Flux[T] {
	return newFlux("single", func(_ *execution, emit func(T) bool) error {
		emit(v)
		return nil
	})
}

// Empty creates a Flux that completes without emitting.
func Empty[T any]() *Flux[T] {
	return newFlux("empty", func(*execution, func(T) bool) error {
		return nil
	})
}

// Error creates a Flux that fails with err without emitting.
// A nil err yields an empty Flux.
func Error[T any](err error) *Flux[T] {
	return newFlux("error", func(*execution, func(T) bool) error {
		return err
	})
}

// Range creates a Flux of count consecutive integers starting at start.
// A negative count, or a range running past math.MaxInt, fails the
// subscription with a ValidationError.
func Range(start, count int) *Flux[int] {
	return newFlux("range", func(_ *execution, emit func(int) bool) error {
		if err := validation.ValidateNonNegative("flux", "count", float64(count)); err != nil {
			return err
		}
		if count > 0 && start > math.MaxInt-(count-1) {
			return gferrors.NewValidationError("flux", "count", count, "range overflows int").
				WithHint(fmt.Sprintf("start %d allows at most %d values", start, math.MaxInt-start+1))
		}
		for n := 0; n < count; n++ {
			if !emit(start + n) {
				return nil
			}
		}
		return nil
	})
}

// FromChannel creates a Flux that emits values received from ch until it is closed.
// Several subscriptions to the same Flux compete for the channel's values.
func FromChannel[T any](ch <-chan T) *Flux[T] {
	return newFlux("fromChannel", func(ex *execution, emit func(T) bool) error {
		for {
			select {
			case <-ex.ctx.Done():
				return ex.cause()
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if !emit(v) {
					return nil
				}
			}
		}
	})
}

// FromSeq creates a Flux over a Go iterator. The iterator is started anew for each subscription.
func FromSeq[T any](seq iter.Seq[T]) *Flux[T] {
	return newFlux("fromSeq", func(_ *execution, emit func(T) bool) error {
		return guard("fromSeq", func() {
			for v := range seq {
				if !emit(v) {
					return
				}
			}
		})
	})
}

// Generate creates an infinite Flux of values returned by fn. Bound it with Take.
func Generate[T any](fn func() T) *Flux[T] {
	return newFlux("generate", func(ex *execution, emit func(T) bool) error {
		for ex.live() {
			var v T
			if err := guard("generate", func() { v = fn() }); err != nil {
				return err
			}
			if !emit(v) {
				return nil
			}
		}
		return nil
	})
}

// Defer calls supplier for every subscription and subscribes to the Flux it returns.
// A nil result is treated as empty.
func Defer[T any](supplier func() *Flux[T]) *Flux[T] {
	return newFlux("defer", func(ex *execution, emit func(T) bool) error {
		var inner *Flux[T]
		if err := guard("defer", func() { inner = supplier() }); err != nil {
			return err
		}
		if inner == nil {
			return nil
		}
		return inner.src(ex, emit)
	})
}

// Interval creates an infinite Flux emitting 0, 1, 2, ... with period between
// values, timed by the subscription's scheduler. A non-positive period fails
// the subscription with a ValidationError.
func Interval(period time.Duration) *Flux[int64] {
	return newFlux("interval", func(ex *execution, emit func(int64) bool) error {
		if err := validation.ValidatePositiveDuration("flux", "period", period); err != nil {
			return err
		}
		for i := int64(0); ; i++ {
			if err := scheduler.Sleep(ex.ctx, ex.scheduler, period); err != nil {
				return err
			}
			if !emit(i) {
				return nil
			}
		}
	})
}

// FromCron creates a Flux that emits the fire time whenever the cron
// expression fires, evaluated on the subscription's scheduler. It completes
// when the schedule has no further fire times. An invalid expression fails
// the subscription.
func FromCron(expr string) *Flux[time.Time] {
	return newFlux("fromCron", func(ex *execution, emit func(time.Time) bool) error {
		schedule, err := scheduler.ParseCron(expr)
		if err != nil {
			return err
		}
		for {
			next, wait := scheduler.NextFire(ex.scheduler, schedule)
			if next.IsZero() {
				return nil
			}
			if err := scheduler.Sleep(ex.ctx, ex.scheduler, wait); err != nil {
				return err
			}
			if !emit(next) {
				return nil
			}
		}
	})
}
