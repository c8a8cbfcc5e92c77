// Package metrics provides Prometheus instrumentation for goflux components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Signal label values.
const (
	SignalNext     = "next"
	SignalComplete = "complete"
	SignalError    = "error"
	SignalCancel   = "cancel"
)

// Registry holds all metric instances for goflux components.
type Registry struct {
	// Sequence Metrics
	SubscriptionsStarted *prometheus.CounterVec
	SubscriptionsActive  *prometheus.GaugeVec
	Signals              *prometheus.CounterVec
	SubscriptionDuration *prometheus.HistogramVec
	DelayDuration        *prometheus.HistogramVec

	// Worker Pool Metrics
	WorkerPoolSize      *prometheus.GaugeVec
	WorkerPoolActive    *prometheus.GaugeVec
	WorkerPoolQueued    *prometheus.GaugeVec
	WorkerPoolCompleted *prometheus.CounterVec
	WorkerPoolFailed    *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a registry honoring cfg's registerer, namespace and labels.
// Enabled is not consulted; callers decide whether to build a registry at all.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	if len(cfg.Labels) > 0 {
		reg = prometheus.WrapRegistererWith(cfg.Labels, reg)
	}

	factory := promauto.With(reg)

	return &Registry{
		SubscriptionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "flux",
				Name:      "subscriptions_total",
				Help:      "Total number of subscriptions started",
			},
			[]string{"sequence"},
		),

		SubscriptionsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "flux",
				Name:      "subscriptions_active",
				Help:      "Number of subscriptions that have not terminated yet",
			},
			[]string{"sequence"},
		),

		Signals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "flux",
				Name:      "signals_total",
				Help:      "Total number of signals delivered to subscribers",
			},
			[]string{"sequence", "signal"},
		),

		SubscriptionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Subsystem: "flux",
				Name:      "subscription_duration_seconds",
				Help:      "Time from subscription start to termination",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"sequence"},
		),

		DelayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Subsystem: "flux",
				Name:      "delay_seconds",
				Help:      "Delay applied to individual values by delay operators",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"sequence"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "workerpool",
				Name:      "size",
				Help:      "Current worker pool size",
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "workerpool",
				Name:      "active_workers",
				Help:      "Number of active workers",
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "workerpool",
				Name:      "queued_tasks",
				Help:      "Number of queued tasks",
			},
			[]string{"pool_name"},
		),

		WorkerPoolCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "workerpool",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks that returned without error",
			},
			[]string{"pool_name"},
		),

		WorkerPoolFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "workerpool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that returned an error or panicked",
			},
			[]string{"pool_name"},
		),
	}
}
