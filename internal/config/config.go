// Package config loads process configuration from LEDGER_* environment
// variables. Command-line flags override these values.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/ledger/internal/ledger"
)

// Config holds environment-provided defaults for the ledger CLI.
type Config struct {
	// OnError selects the error channel policy when no observer is attached:
	// log, panic or ignore.
	OnError string `env:"LEDGER_ON_ERROR" envDefault:"log"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LEDGER_LOG_LEVEL" envDefault:"info"`

	// Format is the CLI output format: text or json.
	Format string `env:"LEDGER_FORMAT" envDefault:"text"`

	// Journal is the SQLite journal path. Empty disables journaling.
	Journal string `env:"LEDGER_JOURNAL"`

	// Metrics prints Prometheus metrics after a run.
	Metrics bool `env:"LEDGER_METRICS" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := c.UnhandledPolicy(); err != nil {
		return fmt.Errorf("LEDGER_ON_ERROR: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("LEDGER_LOG_LEVEL: %w", err)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LEDGER_FORMAT: unknown format %q (want text or json)", c.Format)
	}
	return nil
}

// UnhandledPolicy parses OnError.
func (c Config) UnhandledPolicy() (ledger.UnhandledPolicy, error) {
	return ledger.ParseUnhandledPolicy(c.OnError)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
