package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestNew(t *testing.T) {
	tel, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, end := tel.StartSpan(context.Background(), "invoke.capture",
		attribute.String("binary", "echo"),
	)
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	end()

	// Global providers default to no-op; recording must still be safe.
	tel.RecordInvocation(ctx, "echo", "capture", 0, 0.01)
	tel.RecordInvocation(ctx, "git", "check", 1, 2.5)
}

func TestDisabledTelemetry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableTracing = false
	cfg.EnableMetrics = false

	tel, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	parent := context.Background()
	ctx, end := tel.StartSpan(parent, "invoke.capture")
	if ctx != parent {
		t.Error("disabled tracing should return the parent context unchanged")
	}
	end()
	tel.RecordInvocation(ctx, "echo", "capture", 1, 0.01)
}

func TestNoop(t *testing.T) {
	tel := Noop()
	ctx, end := tel.StartSpan(context.Background(), "invoke.call")
	end()
	tel.RecordInvocation(ctx, "echo", "call", 0, 0)
}
