package metadata

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/zero-day-ai/metadata"

// telemetry holds the OpenTelemetry instruments for one meter provider.
// Instruments are created once and reused by every snapshot sharing the
// provider.
type telemetry struct {
	// promotions counts linear -> hashed transitions
	promotions metric.Int64Counter

	// demotions counts hashed -> linear and any -> empty transitions
	demotions metric.Int64Counter

	// merges counts calls to Merge and Builder.DeepMerge
	merges metric.Int64Counter
}

var (
	globalOnce sync.Once
	global     *telemetry
)

// globalTelemetry returns instruments bound to otel.GetMeterProvider(). The
// global provider delegates to whatever provider is installed later, so
// creating the instruments early is safe.
func globalTelemetry() *telemetry {
	globalOnce.Do(func() {
		global = newTelemetry(otel.GetMeterProvider())
	})
	return global
}

// newTelemetry creates all instruments. An instrument that cannot be created
// is replaced with a no-op so that recording never fails.
func newTelemetry(mp metric.MeterProvider) *telemetry {
	meter := mp.Meter(instrumentationName)
	t := &telemetry{}

	var err error
	t.promotions, err = meter.Int64Counter(
		"metadata.tier.promotions",
		metric.WithDescription("Snapshots promoted from the linear to the hashed tier"),
		metric.WithUnit("1"),
	)
	if err != nil {
		slog.Default().Warn("failed to create metadata instrument", "instrument", "metadata.tier.promotions", "error", err)
		t.promotions = noop.Int64Counter{}
	}

	t.demotions, err = meter.Int64Counter(
		"metadata.tier.demotions",
		metric.WithDescription("Snapshots demoted to a smaller tier"),
		metric.WithUnit("1"),
	)
	if err != nil {
		slog.Default().Warn("failed to create metadata instrument", "instrument", "metadata.tier.demotions", "error", err)
		t.demotions = noop.Int64Counter{}
	}

	t.merges, err = meter.Int64Counter(
		"metadata.merges",
		metric.WithDescription("Deep merges performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		slog.Default().Warn("failed to create metadata instrument", "instrument", "metadata.merges", "error", err)
		t.merges = noop.Int64Counter{}
	}

	return t
}

func (c *config) recordPromotion(count int) {
	c.metrics().promotions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("to", tierHashed.String())))
	c.log().Debug("metadata tier promoted",
		"from", tierLinear.String(),
		"to", tierHashed.String(),
		"count", count)
}

func (c *config) recordDemotion(from, to tier, count int) {
	c.metrics().demotions.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("from", from.String()),
			attribute.String("to", to.String()),
		))
	c.log().Debug("metadata tier demoted",
		"from", from.String(),
		"to", to.String(),
		"count", count)
}

func (c *config) recordMerge() {
	c.metrics().merges.Add(context.Background(), 1)
}
