package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	// Create a separate registry for this example
	registry := NewRegistry(prometheus.NewRegistry())

	registry.SubscriptionsStarted.WithLabelValues("names").Inc()
	registry.Signals.WithLabelValues("names", SignalNext).Add(3)
	registry.Signals.WithLabelValues("names", SignalComplete).Inc()

	fmt.Println(testutil.ToFloat64(registry.Signals.WithLabelValues("names", SignalNext)))

	// Output:
	// 3
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	customConfig := Config{
		Enabled:   false,
		Namespace: "myapp",
	}
	fmt.Printf("Custom enabled: %v\n", customConfig.Enabled)
	fmt.Printf("Custom namespace: %s\n", customConfig.Namespace)

	// Output:
	// Default enabled: true
	// Default namespace: goflux
	// Custom enabled: false
	// Custom namespace: myapp
}
