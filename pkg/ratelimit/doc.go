/*
Package ratelimit provides rate limiting primitives for goflux sequences.

  - bucket: token bucket limiter on a scheduler clock, used by Flux.Throttle
  - concurrency: FIFO permit limiter, used by FlatMapConcurrent

Token buckets allow controlled bursts followed by a steady rate:

	limiter, _ := bucket.New(10, 5) // 10 tokens/sec, burst of 5
	if limiter.Allow() {
		// emit now
	}
*/
package ratelimit
