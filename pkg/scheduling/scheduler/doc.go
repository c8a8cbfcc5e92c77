/*
Package scheduler provides the timer mechanism behind delayed sequences.

A Scheduler is a clock plus cancellable timers. The flux package waits on it
for DelayEach, DelayElements, Interval, FromCron and Mono.Delay, so the
subscribing goroutine is never blocked and every pending timer is released
when a subscription is canceled.

Basic Usage:

	s := scheduler.New()

	// Wait 50ms or until ctx is done
	if err := scheduler.Sleep(ctx, s, 50*time.Millisecond); err != nil {
		return err // context cause
	}

Cron Expressions:

ParseCron accepts five or six fields (the leading seconds field is optional)
and descriptors:

	schedule, err := scheduler.ParseCron("@every 5s")
	next, wait := scheduler.NextFire(s, schedule)

Testing:

Any implementation of Scheduler can be supplied. Tests in this module use a
manual, virtual-time scheduler so that delays are deterministic.
*/
package scheduler
