// Package runner executes setup plans.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options control a single run.
type Options struct {
	// SkipUnchanged skips the install step when the manifest hash matches
	// the state recorded by a previous successful run.
	SkipUnchanged bool
	// DryRun announces every step as skipped without executing anything.
	DryRun bool
}

// Runner executes the steps of a plan strictly in order. The first failure
// aborts the run; later steps never start.
type Runner struct {
	manager ports.PackageManager
	tracer  ports.Tracer
	store   ports.StateStore
	hasher  ports.Hasher
	logger  ports.Logger
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(
	manager ports.PackageManager,
	tracer ports.Tracer,
	store ports.StateStore,
	hasher ports.Hasher,
	logger ports.Logger,
) *Runner {
	return &Runner{
		manager: manager,
		tracer:  tracer,
		store:   store,
		hasher:  hasher,
		logger:  logger,
	}
}

// Run executes the plan. The returned error wraps the failing step's error;
// exit codes from the underlying tool survive unwrapping via domain.ExitCode.
func (r *Runner) Run(ctx context.Context, plan *domain.Plan, opts Options) error {
	if plan == nil || len(plan.Steps) == 0 {
		return domain.ErrEmptyPlan
	}

	r.tracer.EmitPlan(ctx, plan.Profile, plan.StepNames())

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return errors.Join(domain.ErrSetupFailed, err)
		}

		if err := r.runStep(ctx, plan, step, opts); err != nil {
			return errors.Join(domain.ErrSetupFailed, zerr.With(err, "step", step.Title))
		}
	}

	return nil
}

func (r *Runner) runStep(ctx context.Context, plan *domain.Plan, step domain.Step, opts Options) error {
	if opts.DryRun {
		r.skipStep(ctx, step, "dry run")
		return nil
	}

	manifestHash := ""
	if step.Kind == domain.StepInstall {
		manifestHash = r.manifestHash(step.ManifestPath)
		if opts.SkipUnchanged && r.upToDate(plan, step, manifestHash) {
			r.skipStep(ctx, step, "up to date")
			return nil
		}
	}

	ctx, span := r.tracer.Start(ctx, step.Title)
	defer span.End()
	span.SetAttribute("step.kind", step.Kind.String())

	var err error
	switch step.Kind {
	case domain.StepUpgrade:
		err = r.manager.Upgrade(ctx, plan.Interpreter, step.Tools, span, span)
	case domain.StepInstall:
		err = r.manager.Install(ctx, plan.Interpreter, step.ManifestPath, span, span)
	default:
		err = zerr.With(domain.ErrUnknownStepKind, "step_kind", step.Kind.String())
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	if step.Kind == domain.StepInstall {
		r.recordInstall(plan, step, manifestHash)
	}

	return nil
}

// skipStep emits a span that renders as a skip note instead of a
// start/complete pair.
func (r *Runner) skipStep(ctx context.Context, step domain.Step, reason string) {
	_, span := r.tracer.Start(ctx, step.Title, ports.WithSkipped(reason))
	span.End()
}

// manifestHash hashes the manifest, returning "" when it cannot be read.
// A missing manifest is the package manager's error to report, not ours.
func (r *Runner) manifestHash(path string) string {
	hash, err := r.hasher.HashFile(path)
	if err != nil {
		return ""
	}
	return hash
}

// upToDate reports whether the recorded state covers this manifest under the
// same interpreter. Any trouble reading the state or the manifest counts as
// changed: skipping is an optimization and must never mask a needed install.
func (r *Runner) upToDate(plan *domain.Plan, step domain.Step, manifestHash string) bool {
	if manifestHash == "" {
		return false
	}

	state, err := r.store.Get(plan.Profile)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("could not read install state: %v", err))
		return false
	}

	return state.Matches(step.ManifestPath, manifestHash, plan.Interpreter)
}

// recordInstall persists the completed install. Losing the record only costs
// the next run a skip, so failures warn instead of failing a setup that
// already succeeded.
func (r *Runner) recordInstall(plan *domain.Plan, step domain.Step, manifestHash string) {
	if manifestHash == "" {
		return
	}

	err := r.store.Put(domain.InstallState{
		Profile:      plan.Profile,
		ManifestPath: step.ManifestPath,
		ManifestHash: manifestHash,
		Interpreter:  plan.Interpreter,
		CompletedAt:  time.Now(),
	})
	if err != nil {
		r.logger.Warn(fmt.Sprintf("could not record install state: %v", err))
	}
}
