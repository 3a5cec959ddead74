// Package linear provides a synchronous, line-oriented renderer.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/paveproject/pave/internal/core/ports"
	"github.com/paveproject/pave/internal/ui/output"
	"github.com/paveproject/pave/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with chronological line output.
// Step titles, child process output, and the completion message go to stdout;
// headers and failures go to stderr. Steps run one at a time, so output lines
// are indented under their announcement instead of tag-prefixed.
type Renderer struct {
	stdout    io.Writer
	stderr    io.Writer
	outStdout *termenv.Output
	outStderr *termenv.Output
	quiet     bool

	mu      sync.Mutex
	steps   map[string]*stepState // spanID -> step state
	buffers map[string]*bytes.Buffer
}

type stepState struct {
	title     string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Interactive sessions get the
// terminal's full color profile; everything else gets CI-safe ANSI.
func NewRenderer(stdout, stderr io.Writer, interactive bool) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	profile := output.ProfileFor(interactive)

	return &Renderer{
		stdout:    stdout,
		stderr:    stderr,
		outStdout: output.New(stdout, profile),
		outStderr: output.New(stderr, profile),
		steps:     make(map[string]*stepState),
		buffers:   make(map[string]*bytes.Buffer),
	}
}

// WithQuiet suppresses child process output, leaving only step announcements
// and results.
func (r *Renderer) WithQuiet(quiet bool) *Renderer {
	r.quiet = quiet
	return r
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for the linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints a run header naming the profile and step count.
func (r *Renderer) OnPlanEmit(profile string, steps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := fmt.Sprintf("pave %s: %d step(s)", profile, len(steps))
	_, _ = fmt.Fprintln(r.stderr, r.outStderr.String(header).Faint().String())
}

// OnStepStart announces the step by printing its title verbatim.
func (r *Renderer) OnStepStart(spanID, title string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[spanID] = &stepState{
		title:     title,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintln(r.stdout, title)
}

// OnStepLog buffers output and prints complete lines indented under the
// step's announcement.
func (r *Renderer) OnStepLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet {
		return
	}

	buf, ok := r.buffers[spanID]
	if !ok {
		return
	}
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(line)
	}
}

// OnStepSkip reports a step that did not need to run.
func (r *Renderer) OnStepSkip(_, title, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	circle := r.outStdout.String(style.Circle).Faint().String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s (%s)\n", circle, title, reason)
}

// OnStepComplete flushes remaining output and prints the step result.
func (r *Renderer) OnStepComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(step.startTime)

	if err != nil {
		symbol := r.outStderr.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s (%v): %v\n", symbol, step.title, duration, err)
	} else {
		symbol := r.outStdout.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stdout, "%s %s (%v)\n", symbol, step.title, duration)
	}

	delete(r.steps, spanID)
	delete(r.buffers, spanID)
}

// OnRunComplete prints the completion message, but only for successful runs.
// Failed runs end on the step failure line.
func (r *Renderer) OnRunComplete(message string, runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if runErr != nil || message == "" {
		return
	}

	_, _ = fmt.Fprintln(r.stdout, r.outStdout.String(message).Bold().String())
}

// flushBufferLocked prints any remaining partial line for a step.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	buf, ok := r.buffers[spanID]
	if !ok || r.quiet {
		return
	}

	if buf.Len() > 0 {
		r.printLineLocked(buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints one line of child output, indented.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "  %s\n", string(line))
}
