// Package logging builds zerolog loggers for goflux components.
//
// Sequences log nothing unless a logger is supplied: the flux package falls
// back to zerolog.Nop(). Use New to build one from a Config, or pass any
// zerolog.Logger directly.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Field names shared by every goflux log line.
const (
	FieldComponent    = "component"
	FieldSequence     = "sequence"
	FieldSubscription = "subscription_id"
	FieldSignal       = "signal"
	FieldCategory     = "category"
)

// New creates a logger from cfg. Invalid levels fall back to info.
func New(cfg Config) zerolog.Logger {
	cfg.ApplyDefaults()
	return NewWithWriter(cfg, outputWriter(cfg.Output))
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, FormatConsole) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		}
	}

	zl := zerolog.New(w).Level(level)
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	return zl
}

// Component returns l tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case OutputStderr:
		return os.Stderr
	case OutputDiscard:
		return io.Discard
	default:
		return os.Stdout
	}
}
