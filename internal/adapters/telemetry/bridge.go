package telemetry

import (
	"context"
	"errors"

	"github.com/paveproject/pave/internal/core/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Span attribute keys the bridge understands. The runner marks skipped steps
// with these so the renderer can tell a skip apart from a fast success.
const (
	attrSkipped    = "skipped"
	attrSkipReason = "skip_reason"
)

// Bridge implements sdktrace.SpanProcessor to bridge OTel spans to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart is called when a span starts.
// Spans marked skipped at start render as a skip note; the start event is
// withheld so a skip never looks like a running step.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	if skipped, reason := skipAttrs(s.Attributes()); skipped {
		b.renderer.OnStepSkip(sc.SpanID().String(), s.Name(), reason)
		return
	}

	b.renderer.OnStepStart(
		sc.SpanID().String(),
		s.Name(),
		s.StartTime(),
	)
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	if skipped, _ := skipAttrs(s.Attributes()); skipped {
		// Already rendered at start.
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "step failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnStepComplete(
		sc.SpanID().String(),
		s.EndTime(),
		err,
	)
}

// skipAttrs extracts the skip marker from span attributes.
func skipAttrs(attrs []attribute.KeyValue) (bool, string) {
	var skipped bool
	var reason string
	for _, kv := range attrs {
		switch string(kv.Key) {
		case attrSkipped:
			skipped = kv.Value.AsBool()
		case attrSkipReason:
			reason = kv.Value.AsString()
		}
	}
	return skipped, reason
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
