package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation, so the same span
// stream can drive a terminal, a CI log, or a test double.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush any
	// buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers this may return immediately.
	Wait() error

	// OnPlanEmit is called once the setup sequence has been planned.
	// steps holds the step titles in execution order.
	OnPlanEmit(profile string, steps []string)

	// OnStepStart is called when a step begins execution.
	// spanID uniquely identifies this step execution; title is the
	// human-readable progress message announced to the user.
	OnStepStart(spanID, title string, startTime time.Time)

	// OnStepLog is called when a step's child process emits output.
	// data may contain partial lines or ANSI sequences.
	OnStepLog(spanID string, data []byte)

	// OnStepSkip is called when a step is skipped without executing.
	OnStepSkip(spanID, title, reason string)

	// OnStepComplete is called when a step finishes.
	// err is nil on success.
	OnStepComplete(spanID string, endTime time.Time, err error)

	// OnRunComplete is called after the whole sequence finishes.
	// message is the profile's completion line; it is only shown when
	// runErr is nil.
	OnRunComplete(message string, runErr error)
}
