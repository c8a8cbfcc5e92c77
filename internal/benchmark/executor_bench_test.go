package benchmark

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/vnykmshr/goflux/pkg/scheduling/workerpool"
	"github.com/vnykmshr/goflux/pkg/streaming/flux"
)

// BenchmarkSubscribeSpawner measures subscription overhead when every
// subscription gets its own goroutine.
func BenchmarkSubscribeSpawner(b *testing.B) {
	source := flux.Just(1, 2, 3)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sub := source.Subscribe(nil, nil, nil)
		<-sub.Done()
	}
}

// BenchmarkSubscribePool measures subscription overhead on bounded pools.
func BenchmarkSubscribePool(b *testing.B) {
	source := flux.Just(1, 2, 3)

	for _, workers := range []int{1, 4, 8} {
		b.Run(workerLabel(workers), func(b *testing.B) {
			pool := workerpool.New(workers, 1000)
			defer func() { <-pool.Shutdown() }()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sub := source.Subscribe(nil, nil, nil, flux.WithExecutor(pool))
				<-sub.Done()
			}
		})
	}
}

// BenchmarkConcurrentSubscriptions measures many independent subscriptions
// sharing one pool.
func BenchmarkConcurrentSubscriptions(b *testing.B) {
	pool := workerpool.New(8, 1000)
	defer func() { <-pool.Shutdown() }()

	source := flux.Range(0, 100).Filter(func(n int) bool { return n%3 == 0 })

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = source.ToSlice(context.Background(), flux.WithExecutor(pool))
		}
	})
}

// BenchmarkPoolSubmit measures raw task submission with results tracked by
// a WaitGroup.
func BenchmarkPoolSubmit(b *testing.B) {
	for _, workers := range []int{2, 4, 8} {
		b.Run(workerLabel(workers), func(b *testing.B) {
			pool := workerpool.New(workers, 1000)
			defer func() { <-pool.Shutdown() }()

			var wg sync.WaitGroup
			task := workerpool.TaskFunc(func(_ context.Context) error {
				wg.Done()
				return nil
			})

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				wg.Add(1)
				if err := pool.Submit(task); err != nil {
					wg.Done()
				}
			}
			wg.Wait()
		})
	}
}

func workerLabel(workers int) string {
	return strconv.Itoa(workers) + "workers"
}
