package flux_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vnykmshr/goflux/pkg/streaming/flux"
)

func Example() {
	names := flux.FromSlice([]string{"alex", "ben", "chloe"})

	sub := names.
		Map(strings.ToUpper).
		Filter(func(s string) bool { return len(s) > 3 }).
		Subscribe(
			func(s string) { fmt.Println(s) },
			func(err error) { fmt.Println("error:", err) },
			func() { fmt.Println("complete") },
		)
	<-sub.Done()
	// Output:
	// ALEX
	// CHLOE
	// complete
}

// Operators return a new sequence; the receiver is left untouched.
func Example_immutability() {
	names := flux.FromSlice([]string{"alex", "ben", "chloe"})
	names.Map(strings.ToUpper)

	values, _ := names.ToSlice(context.Background())
	fmt.Println(values)
	// Output:
	// [alex ben chloe]
}

func ExampleMap() {
	names := flux.FromSlice([]string{"alex", "ben", "chloe"}).
		Filter(func(s string) bool { return len(s) > 3 })

	labeled := flux.Map(names, func(s string) string {
		return fmt.Sprintf("%d-%s", len(s), strings.ToUpper(s))
	})

	values, _ := labeled.ToSlice(context.Background())
	fmt.Println(values)
	// Output:
	// [4-ALEX 5-CHLOE]
}

func ExampleFlatMap() {
	names := flux.FromSlice([]string{"ALEX", "CHLOE"})

	letters := flux.FlatMap(names, func(s string) *flux.Flux[string] {
		return flux.FromSlice(strings.Split(s, ""))
	})

	values, _ := letters.ToSlice(context.Background())
	fmt.Println(values)
	// Output:
	// [A L E X C H L O E]
}

func ExampleFlux_DelayEach() {
	start := time.Now()
	values, _ := flux.Just("a", "b", "c").
		DelayEach(func() time.Duration { return 5 * time.Millisecond }).
		ToSlice(context.Background())

	fmt.Println(values, time.Since(start) >= 15*time.Millisecond)
	// Output:
	// [a b c] true
}

func ExampleMonoFromSupplier() {
	greeting := flux.MonoFromSupplier(func() (string, error) {
		return "hello", nil
	})

	v, ok, err := flux.MonoMap(greeting, strings.ToUpper).Block(context.Background())
	fmt.Println(v, ok, err)
	// Output:
	// HELLO true <nil>
}

func ExampleCollectList() {
	odds := flux.Range(1, 5).Filter(func(i int) bool { return i%2 == 1 })

	list, _, _ := flux.CollectList(odds).Block(context.Background())

	fmt.Println(list)
	// Output:
	// [1 3 5]
}

func ExampleSubscription_Cancel() {
	ticks := flux.Interval(time.Millisecond)

	sub := ticks.Subscribe(nil, nil, func() {
		fmt.Println("never printed")
	})
	time.Sleep(10 * time.Millisecond)
	sub.Cancel()
	<-sub.Done()

	fmt.Println(sub.IsCanceled(), sub.Err())
	// Output:
	// true subscription canceled
}
