package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals that a setup sequence is about to execute.
	EmitPlan(ctx context.Context, profile string, stepTitles []string)
}

// Span represents a unit of work. Writing to a span streams child process
// output to whatever presentation is attached.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Skipped marks a span for work that was planned but did not run.
	Skipped bool
	// SkipReason says why, e.g. "up to date".
	SkipReason string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithSkipped marks the span as skipped work. Renderers show such spans as a
// skip note instead of a start/complete pair.
func WithSkipped(reason string) SpanOption {
	return func(cfg *SpanConfig) {
		cfg.Skipped = true
		cfg.SkipReason = reason
	}
}
