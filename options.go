package metadata

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a Builder and every snapshot derived from it.
type Option func(*config)

// config holds the settings shared by a family of snapshots. A config is
// never modified once a snapshot refers to it.
type config struct {
	threshold     int
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	telemetry     *telemetry
}

// defaults is used by Empty() and by builders created without options.
var defaults = &config{threshold: DefaultThreshold}

// WithThreshold sets the largest entry count kept in the linear tier.
// It panics with ErrInvalidThreshold when n is less than one.
func WithThreshold(n int) Option {
	if n < 1 {
		panic(&Error{
			Op:   "WithThreshold",
			Kind: KindPrecondition,
			Err:  fmt.Errorf("%w: %d", ErrInvalidThreshold, n),
		})
	}
	return func(c *config) {
		c.threshold = n
	}
}

// WithLogger sets the logger used for tier transition events.
// If not provided, slog.Default() is used at the time of the event.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for tier
// transition and merge counters. If not provided, the global provider is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

func newConfig(opts []Option) *config {
	if len(opts) == 0 {
		return defaults
	}
	c := &config{threshold: DefaultThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.meterProvider != nil {
		c.telemetry = newTelemetry(c.meterProvider)
	}
	return c
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func (c *config) metrics() *telemetry {
	if c.telemetry != nil {
		return c.telemetry
	}
	return globalTelemetry()
}
