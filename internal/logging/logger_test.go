package logging

import (
	"context"
	"testing"
)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc123")
	if got := TraceIDFromContext(ctx); got != "abc123" {
		t.Errorf("got %q, want abc123", got)
	}
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("bare context should have no trace ID, got %q", got)
	}
}

func TestNewTraceID(t *testing.T) {
	a, b := NewTraceID(), NewTraceID()
	if len(a) != 32 {
		t.Errorf("trace ID length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("trace IDs must be unique")
	}
}

func TestFromContextNeverNil(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must always return a logger")
	}
	if FromContext(WithTraceID(context.Background(), "t-1")) == nil {
		t.Fatal("FromContext with trace ID must return a logger")
	}
}
