package flux

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/goflux/internal/testutil"
	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
)

var names = []string{"alex", "ben", "chloe"}

func collect[T any](t *testing.T, f *Flux[T], opts ...Option) []T {
	t.Helper()
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	values, err := f.ToSlice(ctx, opts...)
	testutil.AssertNoError(t, err)
	return values
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{"several", []int{1, 2, 3, 4, 5}},
		{"single", []int{42}},
		{"empty", []int{}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder[int]{}
			sub := FromSlice(tt.input).SubscribeWith(context.Background(), rec)
			<-sub.Done()

			values, errs, completes := rec.snapshot()
			testutil.AssertSliceEqual(t, values, tt.input)
			testutil.AssertEqual(t, errs, 0)
			testutil.AssertEqual(t, completes, 1)
			testutil.AssertNoError(t, sub.Err())
		})
	}
}

func TestJustAndSingle(t *testing.T) {
	testutil.AssertSliceEqual(t, collect(t, Just("a", "b")), []string{"a", "b"})
	testutil.AssertSliceEqual(t, collect(t, Single("x")), []string{"x"})
	testutil.AssertSliceEqual(t, collect(t, Just[int]()), []int{})
}

func TestEmptyAndError(t *testing.T) {
	testutil.AssertSliceEqual(t, collect(t, Empty[int]()), []int{})
	testutil.AssertSliceEqual(t, collect(t, Error[int](nil)), []int{})

	boom := errors.New("boom")
	rec := &recorder[int]{}
	sub := Error[int](boom).SubscribeWith(context.Background(), rec)
	<-sub.Done()

	_, errs, completes := rec.snapshot()
	testutil.AssertEqual(t, errs, 1)
	testutil.AssertEqual(t, completes, 0)
	testutil.AssertEqual(t, rec.lastErr(), boom)
	testutil.AssertEqual(t, sub.Err(), boom)
}

func TestRange(t *testing.T) {
	testutil.AssertSliceEqual(t, collect(t, Range(3, 4)), []int{3, 4, 5, 6})
	testutil.AssertSliceEqual(t, collect(t, Range(3, 0)), []int{})

	_, err := Range(0, -1).ToSlice(context.Background())
	if !gferrors.IsValidationError(err) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestRangeNearMaxInt(t *testing.T) {
	testutil.AssertSliceEqual(t, collect(t, Range(math.MaxInt-1, 2)), []int{math.MaxInt - 1, math.MaxInt})

	values, err := Range(math.MaxInt-1, 3).ToSlice(context.Background())
	if !gferrors.IsValidationError(err) {
		t.Errorf("err = %v, want ValidationError", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want none", values)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	testutil.AssertSliceEqual(t, collect(t, FromChannel(ch)), []string{"hello", "world", "test"})
}

func TestFromSeq(t *testing.T) {
	var produced int32
	seq := func(yield func(int) bool) {
		for i := 0; i < 5; i++ {
			atomic.AddInt32(&produced, 1)
			if !yield(i) {
				return
			}
		}
	}

	testutil.AssertSliceEqual(t, collect(t, FromSeq(seq)), []int{0, 1, 2, 3, 4})
	testutil.AssertSliceEqual(t, collect(t, FromSeq(seq).Take(2)), []int{0, 1})
	testutil.AssertEqual(t, atomic.LoadInt32(&produced), int32(7))
}

func TestGenerateWithTake(t *testing.T) {
	var calls int32
	gen := Generate(func() int32 { return atomic.AddInt32(&calls, 1) })

	testutil.AssertSliceEqual(t, collect(t, gen.Take(3)), []int32{1, 2, 3})
	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestDefer(t *testing.T) {
	var calls int32
	deferred := Defer(func() *Flux[int32] {
		n := atomic.AddInt32(&calls, 1)
		return Just(n)
	})
	testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(0))

	testutil.AssertSliceEqual(t, collect(t, deferred), []int32{1})
	testutil.AssertSliceEqual(t, collect(t, deferred), []int32{2})

	testutil.AssertSliceEqual(t, collect(t, Defer(func() *Flux[int] { return nil })), []int{})

	_, err := Defer(func() *Flux[int] { panic("no supplier") }).ToSlice(context.Background())
	if !gferrors.IsPanic(err) {
		t.Errorf("err = %v, want PanicError", err)
	}
}

func TestLaziness(t *testing.T) {
	var mapped int32
	s := FromSlice(names)
	s.Map(func(v string) string {
		atomic.AddInt32(&mapped, 1)
		return strings.ToUpper(v)
	})
	Map(s, func(v string) int { return len(v) })
	s.Filter(func(string) bool { return false })

	testutil.AssertSliceEqual(t, collect(t, s), names)
	testutil.AssertEqual(t, atomic.LoadInt32(&mapped), int32(0))
}

func TestResubscribeRunsChainAgain(t *testing.T) {
	var runs int32
	s := FromSlice([]int{1, 2}).DoOnNext(func(int) { atomic.AddInt32(&runs, 1) })

	testutil.AssertSliceEqual(t, collect(t, s), []int{1, 2})
	testutil.AssertSliceEqual(t, collect(t, s), []int{1, 2})
	testutil.AssertEqual(t, atomic.LoadInt32(&runs), int32(4))
}

func TestMapFilter(t *testing.T) {
	got := collect(t, FromSlice(names).
		Map(strings.ToUpper).
		Filter(func(s string) bool { return len(s) > 3 }))

	testutil.AssertSliceEqual(t, got, []string{"ALEX", "CHLOE"})
}

func TestMapChangesType(t *testing.T) {
	got := collect(t, Map(FromSlice(names), func(s string) string {
		return fmt.Sprintf("%d-%s", len(s), s)
	}))
	testutil.AssertSliceEqual(t, got, []string{"4-alex", "3-ben", "5-chloe"})

	lengths := collect(t, Map(FromSlice(names), func(s string) int { return len(s) }))
	testutil.AssertSliceEqual(t, lengths, []int{4, 3, 5})
}

func TestFlatMapSplitsCharacters(t *testing.T) {
	upper := FromSlice([]string{"ALEX", "CHLOE"})

	got := collect(t, upper.FlatMap(func(s string) *Flux[string] {
		return FromSlice(strings.Split(s, ""))
	}))
	testutil.AssertSliceEqual(t, got, []string{"A", "L", "E", "X", "C", "H", "L", "O", "E"})

	runes := collect(t, FlatMap(upper, func(s string) *Flux[rune] {
		return FromSlice([]rune(s))
	}))
	testutil.AssertEqual(t, string(runes), "ALEXCHLOE")
}

func TestFlatMapWithRandomDelaysKeepsOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	delay := func() time.Duration { return time.Duration(rnd.Intn(3)) * time.Millisecond }

	got := collect(t, FromSlice([]string{"ALEX", "CHLOE"}).FlatMap(func(s string) *Flux[string] {
		return FromSlice(strings.Split(s, "")).DelayEach(delay)
	}))
	testutil.AssertSliceEqual(t, got, []string{"A", "L", "E", "X", "C", "H", "L", "O", "E"})
}

func TestFlatMapNilInner(t *testing.T) {
	got := collect(t, Range(1, 4).FlatMap(func(i int) *Flux[int] {
		if i%2 == 0 {
			return nil
		}
		return Just(i, i)
	}))
	testutil.AssertSliceEqual(t, got, []int{1, 1, 3, 3})
}

func TestFlatMapTakeStopsInner(t *testing.T) {
	var produced int32
	got := collect(t, Range(0, 3).FlatMap(func(i int) *Flux[int] {
		return Range(i*10, 5).DoOnNext(func(int) { atomic.AddInt32(&produced, 1) })
	}).Take(3))

	testutil.AssertSliceEqual(t, got, []int{0, 1, 2})
	testutil.AssertEqual(t, atomic.LoadInt32(&produced), int32(3))
}

func TestUserFunctionFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		seq        *Flux[int]
		wantValues []int
		wantOp     string
		wantPanic  bool
	}{
		{
			name: "map panic",
			seq: FromSlice([]int{1, 2, 3, 4}).Map(func(v int) int {
				if v == 3 {
					panic("three")
				}
				return v * 2
			}),
			wantValues: []int{2, 4},
			wantOp:     "map",
			wantPanic:  true,
		},
		{
			name: "map error",
			seq: MapErr(FromSlice([]int{1, 2, 3}), func(v int) (int, error) {
				if v == 2 {
					return 0, boom
				}
				return v, nil
			}),
			wantValues: []int{1},
			wantOp:     "map",
		},
		{
			name: "filter panic",
			seq: FromSlice([]int{1, 2, 3}).Filter(func(v int) bool {
				if v == 2 {
					panic(boom)
				}
				return true
			}),
			wantValues: []int{1},
			wantOp:     "filter",
			wantPanic:  true,
		},
		{
			name: "flatMap panic",
			seq: FromSlice([]int{1, 2, 3}).FlatMap(func(v int) *Flux[int] {
				if v == 2 {
					panic("inner")
				}
				return Just(v)
			}),
			wantValues: []int{1},
			wantOp:     "flatMap",
			wantPanic:  true,
		},
		{
			name:       "doOnNext panic",
			seq:        FromSlice([]int{1, 2}).DoOnNext(func(int) { panic("side effect") }),
			wantValues: nil,
			wantOp:     "doOnNext",
			wantPanic:  true,
		},
		{
			name: "sorted panic",
			seq: FromSlice([]int{2, 1}).Sorted(func(a, b int) bool {
				panic("compare")
			}),
			wantValues: nil,
			wantOp:     "sorted",
			wantPanic:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder[int]{}
			sub := tt.seq.SubscribeWith(context.Background(), rec)
			<-sub.Done()

			values, errs, completes := rec.snapshot()
			testutil.AssertSliceEqual(t, values, tt.wantValues)
			testutil.AssertEqual(t, errs, 1)
			testutil.AssertEqual(t, completes, 0)

			var opErr *gferrors.OperationError
			if !errors.As(rec.lastErr(), &opErr) {
				t.Fatalf("err = %v, want OperationError", rec.lastErr())
			}
			testutil.AssertEqual(t, opErr.Operation, tt.wantOp)
			testutil.AssertEqual(t, gferrors.IsPanic(rec.lastErr()), tt.wantPanic)
			testutil.AssertEqual(t, sub.Err(), rec.lastErr())
		})
	}

	t.Run("panic value error unwraps", func(t *testing.T) {
		_, err := FromSlice([]int{1}).Map(func(int) int { panic(boom) }).ToSlice(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want it to wrap boom", err)
		}
	})
}

func TestTakeSkip(t *testing.T) {
	testutil.AssertSliceEqual(t, collect(t, Range(1, 10).Skip(2).Take(3)), []int{3, 4, 5})
	testutil.AssertSliceEqual(t, collect(t, Range(1, 3).Take(0)), []int{})
	testutil.AssertSliceEqual(t, collect(t, Range(1, 3).Take(10)), []int{1, 2, 3})
	testutil.AssertSliceEqual(t, collect(t, Range(1, 3).Skip(5)), []int{})
}

func TestDoOnNext(t *testing.T) {
	var seen []int
	got := collect(t, Range(1, 3).DoOnNext(func(v int) { seen = append(seen, v*10) }))

	testutil.AssertSliceEqual(t, got, []int{1, 2, 3})
	testutil.AssertSliceEqual(t, seen, []int{10, 20, 30})
}

func TestSortedAndDistinct(t *testing.T) {
	got := collect(t, Just(5, 3, 5, 1, 3).Sorted(func(a, b int) bool { return a < b }))
	testutil.AssertSliceEqual(t, got, []int{1, 3, 3, 5, 5})

	got = collect(t, Distinct(Just(5, 3, 5, 1, 3)))
	testutil.AssertSliceEqual(t, got, []int{5, 3, 1})

	got = collect(t, Distinct(Just(5, 3, 5, 1, 3)).Sorted(func(a, b int) bool { return a > b }).Take(2))
	testutil.AssertSliceEqual(t, got, []int{5, 3})
}

func TestName(t *testing.T) {
	base := FromSlice(names)
	testutil.AssertEqual(t, base.SequenceName(), "fromSlice")

	named := base.Name("names")
	testutil.AssertEqual(t, named.SequenceName(), "names")
	testutil.AssertEqual(t, base.SequenceName(), "fromSlice")

	testutil.AssertEqual(t, Map(named, strings.ToUpper).Filter(func(string) bool { return true }).SequenceName(), "names")
	testutil.AssertEqual(t, Just(1).SequenceName(), "just")
}

func TestFlatMapConcurrent(t *testing.T) {
	t.Run("emits every inner value", func(t *testing.T) {
		got := collect(t, FlatMapConcurrent(Range(0, 20), 4, func(i int) *Flux[int] {
			return Just(i*10, i*10+1)
		}))

		var want []int
		for i := 0; i < 20; i++ {
			want = append(want, i*10, i*10+1)
		}
		sort.Ints(got)
		testutil.AssertSliceEqual(t, got, want)
	})

	t.Run("bounds active inner sequences", func(t *testing.T) {
		var active, peak int32
		inner := func(i int) *Flux[int] {
			return FromSeq(func(yield func(int) bool) {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				yield(i)
			})
		}

		got := collect(t, FlatMapConcurrent(Range(0, 12), 3, inner))
		testutil.AssertEqual(t, len(got), 12)
		if p := atomic.LoadInt32(&peak); p > 3 || p < 1 {
			t.Errorf("peak concurrency = %d, want 1..3", p)
		}
	})

	t.Run("first failure wins", func(t *testing.T) {
		boom := errors.New("inner failed")
		rec := &recorder[int]{}
		sub := FlatMapConcurrent(Range(0, 10), 2, func(i int) *Flux[int] {
			if i == 3 {
				return Error[int](boom)
			}
			return Just(i).DelayElements(time.Millisecond)
		}).SubscribeWith(context.Background(), rec)
		<-sub.Done()

		_, errs, completes := rec.snapshot()
		testutil.AssertEqual(t, errs, 1)
		testutil.AssertEqual(t, completes, 0)
		if !errors.Is(rec.lastErr(), boom) {
			t.Errorf("err = %v, want boom", rec.lastErr())
		}
	})

	t.Run("mapper panic", func(t *testing.T) {
		_, err := FlatMapConcurrent(Range(0, 3), 2, func(i int) *Flux[int] {
			panic("mapper")
		}).ToSlice(context.Background())
		if !gferrors.IsPanic(err) {
			t.Errorf("err = %v, want PanicError", err)
		}
	})

	t.Run("take stops inner sequences", func(t *testing.T) {
		got := collect(t, FlatMapConcurrent(Range(0, 100), 4, func(i int) *Flux[int] {
			return Just(i)
		}).Take(5))
		testutil.AssertEqual(t, len(got), 5)
	})

	t.Run("cancel while waiting for a slot", func(t *testing.T) {
		sched := testutil.NewManualScheduler(epoch)
		rec := &recorder[int]{}

		sub := FlatMapConcurrent(Range(0, 5), 1, func(i int) *Flux[int] {
			return Just(i).DelayElements(time.Hour)
		}).SubscribeWith(context.Background(), rec, WithScheduler(sched))

		// one inner sleeps, upstream is parked on the limiter
		sched.WaitForTimers(t, 1)
		sub.Cancel()

		select {
		case <-sub.Done():
		case <-time.After(testutil.TestTimeout):
			t.Fatal("subscription still waiting for a slot after cancel")
		}
		testutil.AssertEqual(t, rec.count(), 0)
		testutil.AssertEventually(t, func() bool { return sched.Pending() == 0 })
	})

	t.Run("slots are per subscription", func(t *testing.T) {
		sched := testutil.NewManualScheduler(epoch)
		f := FlatMapConcurrent(Range(0, 3), 1, func(i int) *Flux[int] {
			return Just(i).DelayElements(time.Hour)
		})

		first := f.SubscribeWith(context.Background(), &recorder[int]{}, WithScheduler(sched))
		second := f.SubscribeWith(context.Background(), &recorder[int]{}, WithScheduler(sched))

		sched.WaitForTimers(t, 2)
		first.Cancel()
		second.Cancel()
		<-first.Done()
		<-second.Done()
	})

	t.Run("invalid concurrency", func(t *testing.T) {
		_, err := FlatMapConcurrent(Range(0, 3), 0, func(i int) *Flux[int] { return Just(i) }).
			ToSlice(context.Background())
		if !gferrors.IsValidationError(err) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}
