package tracekv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	ops      metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	ops, err := meter.Int64Counter(
		"vault.ops",
		metric.WithDescription("Total number of vault operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"vault.errors",
		metric.WithDescription("Total number of failed vault operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"vault.duration",
		metric.WithDescription("Duration of vault operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &instruments{ops: ops, errors: errs, duration: duration}, nil
}

// record never includes the item id, to keep cardinality bounded
func (m *instruments) record(ctx context.Context, attrs []attribute.KeyValue, d time.Duration, err error) {
	// recorded even when ctx is cancelled
	ctx = context.WithoutCancel(ctx)

	m.ops.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(append(attrs, ErrorKind(err))...))
	}
}
