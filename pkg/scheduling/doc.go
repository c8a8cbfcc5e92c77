/*
Package scheduling groups the execution primitives that sequences run on.

  - scheduler: a clock with cancellable timers, plus cron parsing
  - workerpool: bounded worker pools and an unbounded spawner

Subscriptions are submitted to a workerpool.Executor, and operators that
wait (DelayEach, Interval, FromCron) sleep on a scheduler.Scheduler:

	pool := workerpool.New(4, 16)
	defer func() { <-pool.Shutdown() }()

	sub := flux.Range(1, 5).
		DelayElements(100*time.Millisecond).
		Subscribe(onNext, onError, onComplete,
			flux.WithExecutor(pool),
			flux.WithScheduler(scheduler.New()))

Both are safe for concurrent use and honor context cancellation.
*/
package scheduling
