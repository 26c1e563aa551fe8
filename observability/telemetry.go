// Package observability provides OpenTelemetry tracing and metrics for
// subprocess invocations.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry records invocation traces and metrics.
type Telemetry interface {
	// StartSpan starts a new trace span. The returned func ends it.
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func())

	// RecordInvocation records one completed invocation.
	RecordInvocation(ctx context.Context, binary, mode string, exitCode int, durationSeconds float64)
}

// Config configures telemetry.
type Config struct {
	// ServiceName is the tracer/meter instrumentation name.
	ServiceName string

	// MetricsPrefix is the prefix for all metric names.
	MetricsPrefix string

	// EnableTracing enables distributed tracing.
	EnableTracing bool

	// EnableMetrics enables metrics collection.
	EnableMetrics bool
}

// DefaultConfig returns the default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:   "gospawn",
		MetricsPrefix: "gospawn_",
		EnableTracing: true,
		EnableMetrics: true,
	}
}

type telemetry struct {
	config Config
	tracer trace.Tracer
	meter  metric.Meter

	invocationCounter  metric.Int64Counter
	invocationDuration metric.Float64Histogram
	failureCounter     metric.Int64Counter
}

// New creates a Telemetry backed by the global OpenTelemetry providers.
func New(config Config) (Telemetry, error) {
	t := &telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	var err error

	t.invocationCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"invocations_total",
		metric.WithDescription("Total number of subprocess invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.invocationDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"invocation_duration_seconds",
		metric.WithDescription("Duration of subprocess invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.failureCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"failures_total",
		metric.WithDescription("Total number of non-zero subprocess exits"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan implements Telemetry.StartSpan.
func (t *telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	return ctx, func() {
		span.End()
	}
}

// RecordInvocation implements Telemetry.RecordInvocation.
func (t *telemetry) RecordInvocation(ctx context.Context, binary, mode string, exitCode int, durationSeconds float64) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("binary", binary),
		attribute.String("mode", mode),
		attribute.Int("exit_code", exitCode),
	)
	t.invocationCounter.Add(ctx, 1, attrs)
	t.invocationDuration.Record(ctx, durationSeconds, attrs)
	if exitCode != 0 {
		t.failureCounter.Add(ctx, 1, attrs)
	}
}

// Noop returns a no-op telemetry implementation.
func Noop() Telemetry {
	return &noopTelemetry{}
}

type noopTelemetry struct{}

func (t *noopTelemetry) StartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, func()) {
	return ctx, func() {}
}

func (t *noopTelemetry) RecordInvocation(context.Context, string, string, int, float64) {}
