package logging

import (
	"github.com/vnykmshr/goflux/pkg/common/validation"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputDiscard = "discard"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
}

// DefaultConfig returns a configuration that writes JSON at info level to stdout.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.Output == "" {
		c.Output = OutputStdout
	}
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateOneOf("logging", "level", c.Level,
		"trace", "debug", "info", "warn", "error", "disabled"); err != nil {
		return err
	}
	if err := validation.ValidateOneOf("logging", "format", c.Format, FormatJSON, FormatConsole); err != nil {
		return err
	}
	return validation.ValidateOneOf("logging", "output", c.Output, OutputStdout, OutputStderr, OutputDiscard)
}
