/*
Package workerpool runs tasks on goroutines and is the execution layer
subscriptions are started on.

Two executors are provided. Spawner starts one goroutine per task and is the
default for flux subscriptions. Pool keeps a fixed number of workers fed from a
bounded queue, which caps how many subscriptions run at once:

	pool := workerpool.New(4, 100) // 4 workers, queue size 100
	defer func() { <-pool.Shutdown() }()

	sub := flux.FromSlice(names).SubscribeWith(ctx, subscriber, flux.WithExecutor(pool))

Tasks implement a single method:

	type Task interface {
		Execute(ctx context.Context) error
	}

and TaskFunc adapts plain functions.

Configuration:

	pool, err := workerpool.NewWithConfig(workerpool.Config{
		Name:        "subscriptions",
		WorkerCount: 8,
		QueueSize:   64,
		TaskTimeout: 30 * time.Second,
		OnTaskComplete: func(workerID int, r workerpool.Result) {
			log.Printf("worker %d: %v in %v", workerID, r.Error, r.Duration)
		},
	})

NewWithConfig validates the configuration and returns a ValidationError from
pkg/common/errors when WorkerCount is not positive or QueueSize is negative.
A QueueSize of zero makes Submit block until a worker is free.

Panics inside a task are recovered, passed to PanicHandler when one is set,
and reported as a *errors.PanicError in the task's Result.

Shutdown stops accepting tasks and lets every queued task run before the
returned channel closes. Submitting afterwards fails with errors.ErrClosed.

Metrics:

NewWithMetrics wraps a pool so that its size, active workers, queue depth and
task outcomes are exported through a metrics.Registry, labeled with
Config.Name.
*/
package workerpool
