/*
Package bucket implements a token bucket rate limiter driven by a
scheduler.Scheduler.

Tokens refill at Limit per second up to Burst. Allow and AllowN never block;
Wait and WaitN sleep on the scheduler until enough tokens exist or the
context is done:

	limiter, err := bucket.New(bucket.Every(100*time.Millisecond), 3)
	if err != nil {
		return err
	}
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

Because the clock comes from the scheduler, a manual scheduler makes the
limiter fully deterministic in tests.

The flux package builds one limiter per subscription for Flux.Throttle.
*/
package bucket
