package goStats

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

/*
====================================
STATS CONFIG
====================================
*/

// StatsConfig decides how a Stats is built. It is read once, at construction.
type StatsConfig struct {
	// Enabled selects the aggregating Registry; false yields the no-op variant.
	Enabled bool
	// Unit is the unit durations are converted to.
	Unit TimeUnit
	// Clock is the timestamp source for watches. Tests inject a fake.
	Clock Clock
	// Logger receives construction diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a disabled, millisecond, system-clock config.
func DefaultConfig() StatsConfig {
	return StatsConfig{
		Enabled: false,
		Unit:    Milliseconds,
		Clock:   SystemClock{},
	}
}

// Validate checks the config before a Stats is built from it.
func (c *StatsConfig) Validate() error {
	if !c.Unit.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTimeUnit, uint8(c.Unit))
	}
	if c.Clock == nil {
		return ErrNilClock
	}
	return nil
}

/*
====================================
ENVIRONMENT
====================================
*/

const envPrefix = "GOSTATS_"

type envConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Unit    TimeUnit `env:"UNIT" envDefault:"ms"`
}

// LoadConfigFromEnv reads GOSTATS_ENABLED and GOSTATS_UNIT on top of
// DefaultConfig. The returned config has been validated.
func LoadConfigFromEnv() (StatsConfig, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: envPrefix}); err != nil {
		return StatsConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := DefaultConfig()
	cfg.Enabled = raw.Enabled
	cfg.Unit = raw.Unit
	if err := cfg.Validate(); err != nil {
		return StatsConfig{}, err
	}
	return cfg, nil
}
