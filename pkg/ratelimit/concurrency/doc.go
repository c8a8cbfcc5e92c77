/*
Package concurrency provides a context-aware counting semaphore.

A Limiter hands out at most Capacity permits. Waiters queue in arrival
order, and a waiter whose context ends leaves the queue without holding a
permit:

	limiter, err := concurrency.New(4)
	if err != nil {
		return err
	}

	if err := limiter.Wait(ctx); err != nil {
		return err // context cause
	}
	defer limiter.Release()

flux.FlatMapConcurrent creates one Limiter per subscription to bound the
number of active inner sequences.
*/
package concurrency
