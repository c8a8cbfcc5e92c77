package flux

import (
	"context"
	"sync"

	"github.com/vnykmshr/goflux/pkg/scheduling/workerpool"
)

// recorder is a Subscriber that keeps every signal it receives.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	err       error
	errors    int
	completes int
}

func (r *recorder[T]) OnNext(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	r.errors++
}

func (r *recorder[T]) OnComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes++
}

func (r *recorder[T]) snapshot() (values []T, errors, completes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...), r.errors, r.completes
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

func (r *recorder[T]) lastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// gatedExecutor holds submitted tasks until runAll executes them on the
// calling goroutine, which makes the start of a subscription deterministic.
type gatedExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (g *gatedExecutor) SubmitWithContext(ctx context.Context, task workerpool.Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks = append(g.tasks, func() { _ = task.Execute(ctx) })
	return nil
}

func (g *gatedExecutor) runAll() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	for _, t := range tasks {
		t()
	}
}
