/*
Package goflux provides lazy, cold, push-based reactive sequences for Go.

Sequences (pkg/streaming/flux):
  - Flux: zero or more values, built from slices, channels, iterators,
    intervals or cron schedules and transformed with Map, Filter, FlatMap,
    DelayEach and friends
  - Mono: at most one value, with the same lazy semantics

Scheduling (pkg/scheduling):
  - scheduler: clock and timers used by delaying operators, cron parsing
  - workerpool: executors that run subscriptions off the caller's goroutine

Supporting packages:
  - config: viper-based loading and runtime assembly
  - logging: zerolog construction
  - metrics: Prometheus instrumentation

Example usage:

	import (
		"github.com/vnykmshr/goflux/pkg/streaming/flux"
	)

	names := flux.FromSlice([]string{"alex", "chloe"}).
		Map(strings.ToUpper)

	sub := names.Subscribe(
		func(name string) { fmt.Println(name) },
		func(err error) { log.Println(err) },
		func() { fmt.Println("complete") },
	)
	<-sub.Done()

Nothing runs until Subscribe is called, and every subscription replays the
whole chain from the start.
*/
package goflux
