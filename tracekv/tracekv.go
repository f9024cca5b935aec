// Package tracekv instruments vault stores for distributed tracing and
// metrics. The OpenTelemetry API is supported.
//
// This is not a back-end, but rather a wrapper around an existing
// [vaultbind.Store] or [vaultbind.ClientFactory].
//
// # Usage
//
// Wrap a client factory with [WrapFactory] before handing it to a
// [vaultbind.ClientCache]. Every Get and Set is then recorded as a span named
// "vault.Get" or "vault.Set", and counted in the "vault.ops", "vault.errors"
// and "vault.duration" metrics. Item values are never recorded.
//
// In order to report traces and metrics, an OTel [trace.TracerProvider] and
// [metric.MeterProvider] must first be set up. See the kvcli example in this
// repository's examples directory for one approach. Providers can optionally
// be passed with [WithTracerProvider] and [WithMeterProvider].
package tracekv

import (
	"context"
	"time"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hairyhenderson/go-vaultbind/tracekv"

type traceStore[V any] struct {
	store        vaultbind.Store[V]
	tracer       trace.Tracer
	metrics      *instruments
	resourceName string
	kind         vaultbind.ItemKind
}

type instrumentation struct {
	tracer  trace.Tracer
	metrics *instruments
}

func newInstrumentation(opts []Option) (*instrumentation, error) {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	if cfg.mp == nil {
		cfg.mp = otel.GetMeterProvider()
	}

	metrics, err := newInstruments(cfg.mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return &instrumentation{
		tracer:  cfg.tp.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

// New returns a store that instruments the given store, which holds items of
// the given kind in the named vault.
func New[V any](store vaultbind.Store[V], kind vaultbind.ItemKind, resourceName string,
	opts ...Option,
) (vaultbind.Store[V], error) {
	inst, err := newInstrumentation(opts)
	if err != nil {
		return nil, err
	}

	return wrap(inst, store, kind, resourceName), nil
}

// WrapFactory returns a client factory whose stores are all instrumented.
// Factory errors are passed through untouched.
func WrapFactory[V any](factory vaultbind.ClientFactory[V], kind vaultbind.ItemKind,
	opts ...Option,
) (vaultbind.ClientFactory[V], error) {
	inst, err := newInstrumentation(opts)
	if err != nil {
		return nil, err
	}

	return func(resourceName string) (vaultbind.Store[V], error) {
		store, err := factory(resourceName)
		if err != nil {
			return nil, err
		}

		return wrap(inst, store, kind, resourceName), nil
	}, nil
}

func wrap[V any](i *instrumentation, store vaultbind.Store[V], kind vaultbind.ItemKind,
	resourceName string,
) vaultbind.Store[V] {
	return &traceStore[V]{
		store:        store,
		tracer:       i.tracer,
		metrics:      i.metrics,
		resourceName: resourceName,
		kind:         kind,
	}
}

func (s *traceStore[V]) start(ctx context.Context, op vaultbind.Operation, id string,
) (context.Context, trace.Span, []attribute.KeyValue) {
	attrs := []attribute.KeyValue{Kind(s.kind), Resource(s.resourceName), Op(op)}

	ctx, span := s.tracer.Start(ctx, "vault."+spanName(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, Item(id))...),
	)

	return ctx, span, attrs
}

func (s *traceStore[V]) Get(ctx context.Context, id string) (V, error) {
	ctx, span, attrs := s.start(ctx, vaultbind.OpGet, id)
	defer span.End()

	start := time.Now()
	v, err := s.store.Get(ctx, id)

	s.metrics.record(ctx, attrs, time.Since(start), err)

	return v, recordError(span, err)
}

func (s *traceStore[V]) Set(ctx context.Context, id string, value V) error {
	ctx, span, attrs := s.start(ctx, vaultbind.OpSet, id)
	defer span.End()

	start := time.Now()
	err := s.store.Set(ctx, id, value)

	s.metrics.record(ctx, attrs, time.Since(start), err)

	return recordError(span, err)
}

func spanName(op vaultbind.Operation) string {
	switch op {
	case vaultbind.OpSet:
		return "Set"
	default:
		return "Get"
	}
}

func recordError(span trace.Span, err error) error {
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(ErrorKind(err))

	return err
}
