// Package metrics provides Prometheus instrumentation for goflux components.
//
// Metrics are opt-in. Build a Registry and hand it to the components that
// should report:
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	// Sequences
//	sub := names.SubscribeWith(ctx, subscriber, flux.WithMetrics(reg))
//
//	// Worker pools
//	pool, err := workerpool.NewWithMetrics(workerpool.Config{Name: "subscriptions", WorkerCount: 4}, reg)
//
// Then expose them via HTTP with promhttp as usual.
//
// # Available Metrics
//
// ## Sequence Metrics
//
//   - goflux_flux_subscriptions_total: Subscriptions started
//   - goflux_flux_subscriptions_active: Subscriptions not yet terminated
//   - goflux_flux_signals_total: Signals delivered, by signal (next, complete, error, cancel)
//   - goflux_flux_subscription_duration_seconds: Time from start to termination
//   - goflux_flux_delay_seconds: Per-value delays applied by DelayEach and friends
//
// ## Worker Pool Metrics
//
//   - goflux_workerpool_size: Current worker pool size
//   - goflux_workerpool_active_workers: Number of active workers
//   - goflux_workerpool_queued_tasks: Number of queued tasks
//   - goflux_workerpool_tasks_completed_total: Tasks that returned nil
//   - goflux_workerpool_tasks_failed_total: Tasks that failed or panicked
//
// # Labels
//
//   - sequence: the name given with Flux.Name (default "flux" or "mono")
//   - signal: next, complete, error or cancel
//   - pool_name: the worker pool's Config.Name
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",                         // Override default "goflux"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Constant labels
//	}
//	reg := metrics.NewRegistryWithConfig(config)
package metrics
