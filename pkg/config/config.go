package config

import (
	"time"

	"github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/common/validation"
	"github.com/vnykmshr/goflux/pkg/logging"
	"github.com/vnykmshr/goflux/pkg/metrics"
)

// Config is the complete goflux runtime configuration.
type Config struct {
	Pool      PoolConfig      `yaml:"pool" mapstructure:"pool"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Log       logging.Config  `yaml:"log" mapstructure:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing" mapstructure:"tracing"`
}

// PoolConfig sizes the executor that runs subscriptions.
// Workers == 0 selects the unbounded spawner.
type PoolConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	QueueSize   int           `yaml:"queue_size" mapstructure:"queue_size"`
	TaskTimeout time.Duration `yaml:"task_timeout" mapstructure:"task_timeout"`
}

// SchedulerConfig configures the clock used by delay and cron operators.
type SchedulerConfig struct {
	// Location is an IANA zone name, "Local" or "UTC".
	Location string `yaml:"location" mapstructure:"location"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool              `yaml:"enabled" mapstructure:"enabled"`
	Namespace string            `yaml:"namespace" mapstructure:"namespace"`
	Labels    map[string]string `yaml:"labels" mapstructure:"labels"`
}

// TracingConfig controls the OpenTelemetry tracer provider.
// A zero SampleRate means sample everything.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Pool.Name == "" {
		c.Pool.Name = "subscriptions"
	}
	if c.Scheduler.Location == "" {
		c.Scheduler.Location = "Local"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = metrics.DefaultNamespace
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1
	}
	c.Log.ApplyDefaults()
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := validation.ValidateNonNegative("config", "pool.workers", float64(c.Pool.Workers)); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "pool.queue_size", float64(c.Pool.QueueSize)); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "pool.task_timeout", c.Pool.TaskTimeout.Seconds()); err != nil {
		return err
	}
	if c.Pool.Workers == 0 && c.Pool.QueueSize > 0 {
		return errors.NewValidationError("config", "pool.queue_size", c.Pool.QueueSize,
			"requires a bounded pool").WithHint("set pool.workers or leave queue_size at 0")
	}
	if _, err := c.location(); err != nil {
		return errors.NewValidationError("config", "scheduler.location", c.Scheduler.Location,
			"is not a known time zone").WithHint(err.Error())
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.NewValidationError("config", "tracing.sample_rate", c.Tracing.SampleRate,
			"must be between 0 and 1")
	}
	return c.Log.Validate()
}

func (c *Config) location() (*time.Location, error) {
	switch c.Scheduler.Location {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Scheduler.Location)
	}
}
