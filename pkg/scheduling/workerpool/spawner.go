package workerpool

import (
	"context"

	"github.com/vnykmshr/goflux/pkg/common/validation"
)

// Spawner is an Executor that runs every task on its own goroutine.
// It never queues and never rejects a task, so it suits sequences with
// unbounded numbers of concurrent subscriptions.
type Spawner struct{}

// SubmitWithContext starts task on a new goroutine.
func (Spawner) SubmitWithContext(ctx context.Context, task Task) error {
	if err := validation.ValidateNotNil("workerpool", "task", task); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		_ = task.Execute(ctx)
	}()
	return nil
}
