package goStats

import (
	"io"
	"log/slog"
)

// Builder assembles a Stats. A Builder can be built once.
type Builder struct {
	config StatsConfig
	built  bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole config.
func (b *Builder) WithConfig(cfg StatsConfig) *Builder {
	b.config = cfg
	return b
}

// WithEnabled toggles aggregation.
func (b *Builder) WithEnabled(enabled bool) *Builder {
	b.config.Enabled = enabled
	return b
}

// WithUnit sets the duration unit.
func (b *Builder) WithUnit(unit TimeUnit) *Builder {
	b.config.Unit = unit
	return b
}

// WithClock sets the timestamp source used by watches.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.config.Clock = clock
	return b
}

// WithLogger sets the logger for construction diagnostics.
func (b *Builder) WithLogger(log *slog.Logger) *Builder {
	b.config.Logger = log
	return b
}

// Build validates the config and returns the Stats it describes.
func (b *Builder) Build() (Stats, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stats := NewStats(cfg)
	log.Debug("statistics initialized",
		slog.Bool("enabled", stats.Enabled()),
		slog.String("unit", stats.Unit().String()),
	)

	b.built = true
	return stats, nil
}
