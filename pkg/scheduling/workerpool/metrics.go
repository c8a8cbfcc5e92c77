package workerpool

import (
	"context"

	"github.com/vnykmshr/goflux/pkg/metrics"
)

// DefaultPoolName labels metrics of pools created without a Name.
const DefaultPoolName = "default"

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	Pool
	name     string
	registry *metrics.Registry
}

// NewWithMetrics creates a worker pool that reports size, activity, queue
// depth and task outcomes to reg under the pool's Name.
func NewWithMetrics(config Config, reg *metrics.Registry) (Pool, error) {
	if reg == nil {
		return NewWithConfig(config)
	}

	name := config.Name
	if name == "" {
		name = DefaultPoolName
	}

	mp := &MetricsPool{name: name, registry: reg}

	// Outcomes are counted by the worker itself so panics are included.
	userStart, userComplete := config.OnTaskStart, config.OnTaskComplete
	config.OnTaskStart = func(workerID int, task Task) {
		mp.updateMetrics()
		if userStart != nil {
			userStart(workerID, task)
		}
	}
	config.OnTaskComplete = func(workerID int, result Result) {
		if result.Error != nil {
			reg.WorkerPoolFailed.WithLabelValues(name).Inc()
		} else {
			reg.WorkerPoolCompleted.WithLabelValues(name).Inc()
		}
		mp.updateMetrics()
		if userComplete != nil {
			userComplete(workerID, result)
		}
	}

	base, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}
	mp.Pool = base

	reg.WorkerPoolSize.WithLabelValues(name).Set(float64(base.Size()))
	mp.updateMetrics()
	return mp, nil
}

// updateMetrics updates the current state metrics.
func (mp *MetricsPool) updateMetrics() {
	mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.Pool.ActiveWorkers()))
	mp.registry.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.Pool.QueueSize()))
}

// Submit adds a task to the pool for execution.
func (mp *MetricsPool) Submit(task Task) error {
	return mp.SubmitWithContext(context.Background(), task)
}

// SubmitWithContext submits a task and refreshes the queue gauge.
func (mp *MetricsPool) SubmitWithContext(ctx context.Context, task Task) error {
	err := mp.Pool.SubmitWithContext(ctx, task)
	mp.updateMetrics()
	return err
}

// Name returns the label the pool reports under.
func (mp *MetricsPool) Name() string {
	return mp.name
}
