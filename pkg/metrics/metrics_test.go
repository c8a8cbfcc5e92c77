package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.SubscriptionsStarted.WithLabelValues("s").Inc()
	r.SubscriptionsActive.WithLabelValues("s").Set(1)
	r.Signals.WithLabelValues("s", SignalNext).Inc()
	r.SubscriptionDuration.WithLabelValues("s").Observe(0.1)
	r.DelayDuration.WithLabelValues("s").Observe(0.01)
	r.WorkerPoolSize.WithLabelValues("p").Set(2)
	r.WorkerPoolActive.WithLabelValues("p").Set(1)
	r.WorkerPoolQueued.WithLabelValues("p").Set(0)
	r.WorkerPoolCompleted.WithLabelValues("p").Inc()
	r.WorkerPoolFailed.WithLabelValues("p").Inc()

	count, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 10 {
		t.Errorf("gathered %d series, want 10", count)
	}
}

func TestNewRegistryWithConfig_Namespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithConfig(Config{Registry: reg, Namespace: "myapp"})

	r.SubscriptionsStarted.WithLabelValues("names").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("got %d families, want 1", len(families))
	}
	if name := families[0].GetName(); name != "myapp_flux_subscriptions_total" {
		t.Errorf("metric name = %q", name)
	}
}

func TestNewRegistryWithConfig_ConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithConfig(Config{
		Registry: reg,
		Labels:   prometheus.Labels{"version": "1.0"},
	})

	r.Signals.WithLabelValues("names", SignalComplete).Inc()

	expected := `
# HELP goflux_flux_signals_total Total number of signals delivered to subscribers
# TYPE goflux_flux_signals_total counter
goflux_flux_signals_total{sequence="names",signal="complete",version="1.0"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "goflux_flux_signals_total"); err != nil {
		t.Error(err)
	}
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRegistry(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering the same collectors twice should panic")
		}
	}()
	NewRegistry(reg)
}
