/*
Package flux provides cold, lazy, push-based sequences: Flux for zero or more
values and Mono for at most one.

A sequence is only a description of how to produce values. Building or
transforming one does no work; the whole chain runs when a subscriber
attaches, and every subscription runs it again from the root producer.

Basic usage:

	names := flux.FromSlice([]string{"alex", "ben", "chloe"})

	upper := flux.Map(names, strings.ToUpper).
		Filter(func(s string) bool { return len(s) > 3 })

	sub := upper.Subscribe(
		func(s string) { fmt.Println(s) },
		func(err error) { log.Printf("failed: %v", err) },
		func() { fmt.Println("done") },
	)
	<-sub.Done()

Operators never modify their receiver. Calling names.Map(f) and discarding
the result leaves names producing its original values.

Type-changing operators are package functions, because Go methods cannot
declare type parameters:

	lengths := flux.Map(names, func(s string) int { return len(s) })
	letters := flux.FlatMap(names, func(s string) *flux.Flux[string] {
		return flux.FromSlice(strings.Split(s, ""))
	})

Same-type forms are also available as methods (Map, FlatMap).

Sources:

	FromSlice, Just, Single, Empty, Error, Range   finite sequences
	FromChannel, FromSeq, Generate, Defer          adapters
	Interval, FromCron                             timed, infinite sequences
	MonoJust, MonoEmpty, MonoError                 single values
	MonoFromSupplier                               a value computed per subscription

Operators:

	Map, MapErr, Filter, DoOnNext                  per-value transformation
	FlatMap, FlatMapConcurrent, FlatMapMany        flattening
	DelayEach, DelayElements, Mono.Delay           timing
	Throttle                                       rate limiting with a token bucket
	Take, Skip, Distinct, Sorted                   selection
	CollectList, Flux.Next                         reduction to a Mono
	Log, Name                                      diagnostics

FlatMap subscribes to inner sequences one at a time, in upstream order, so its
output is their concatenation. FlatMapConcurrent keeps up to n inner sequences
active and emits values in the order they are produced.

Subscriptions:

Subscribe and SubscribeWith return immediately. The chain runs on the
subscription's executor, a new goroutine by default, and callbacks are
delivered there one at a time: zero or more OnNext, then at most one of
OnError or OnComplete.

	sub := seq.SubscribeWith(ctx, subscriber,
		flux.WithExecutor(pool),         // run on a workerpool.Pool
		flux.WithScheduler(sched),       // clock used by delays and timers
		flux.WithLogger(logger),         // lifecycle logs and Log output
		flux.WithMetrics(registry),      // Prometheus counters
		flux.WithTracer(tracer),         // one span per subscription
	)

With a bounded Pool, SubscribeWith waits for queue space before returning.

Cancel stops a subscription at its next emission point and stops any pending
timer. It is silent: no OnComplete or OnError follows, and Err reports
errors.ErrCanceled. Canceling the ctx given to SubscribeWith is different: it
fails the subscription with the context's cause.

ToSlice and Mono.Block subscribe and wait, which is convenient in tests and
command line tools.

Errors:

A panic in any user function, including the subscriber's OnNext, terminates
the subscription with exactly one OnError. The error is an
*errors.OperationError naming the operator, wrapping an *errors.PanicError
with the recovered value and stack. Errors returned by MapErr functions and
Mono suppliers are wrapped the same way. Nothing is emitted after a failure.
*/
package flux
