// Package app implements the application layer for pave.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/paveproject/pave/internal/adapters/detector"
	"github.com/paveproject/pave/internal/adapters/linear"
	"github.com/paveproject/pave/internal/adapters/telemetry"
	"github.com/paveproject/pave/internal/adapters/watcher"
	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"github.com/paveproject/pave/internal/doctor"
	"github.com/paveproject/pave/internal/engine/runner"
	"github.com/paveproject/pave/internal/ui/output"
	"github.com/paveproject/pave/internal/ui/style"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	manager      ports.PackageManager
	logger       ports.Logger
	store        ports.StateStore
	hasher       ports.Hasher

	stdout     io.Writer
	stderr     io.Writer
	newWatcher func() (ports.Watcher, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	manager ports.PackageManager,
	log ports.Logger,
	store ports.StateStore,
	hasher ports.Hasher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		manager:      manager,
		logger:       log,
		store:        store,
		hasher:       hasher,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newWatcher: func() (ports.Watcher, error) {
			return watcher.NewWatcher()
		},
	}
}

// WithOutput redirects the renderer's streams.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWatcherFactory replaces the file watcher constructor.
// This is primarily used for testing.
func (a *App) WithWatcherFactory(f func() (ports.Watcher, error)) *App {
	a.newWatcher = f
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Profile       string
	ConfigFile    string
	Manifest      string
	SkipUnchanged bool
	DryRun        bool
	Watch         bool
	Quiet         bool
}

// Run executes the setup sequence for the selected profile.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	plan, err := a.plan(opts)
	if err != nil {
		return err
	}

	runErr := a.runOnce(ctx, plan, opts)
	if !opts.Watch {
		return runErr
	}

	// Watch mode keeps going after a failed run; the next edit may fix it.
	if runErr != nil {
		a.logger.Error(runErr)
	}

	return a.watch(ctx, plan, opts)
}

// plan resolves the profile and builds its setup plan.
func (a *App) plan(opts RunOptions) (*domain.Plan, error) {
	profile, err := a.configLoader.Load(".", opts.ConfigFile, opts.Profile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Manifest != "" {
		profile = profile.OverrideManifest(opts.Manifest)
	}

	return domain.NewPlan(profile), nil
}

// runOnce wires a renderer and tracer for a single pass over the plan.
//
//nolint:cyclop // orchestration function
func (a *App) runOnce(ctx context.Context, plan *domain.Plan, opts RunOptions) error {
	// 1. Initialize Renderer
	renderer := linear.NewRenderer(a.stdout, a.stderr, detector.IsInteractive()).WithQuiet(opts.Quiet)

	// 2. Initialize Telemetry
	// Create a bridge that sends OTel spans to the renderer, and configure
	// the global OTel SDK to use it. When OTelTracer uses otel.Tracer(),
	// span lifecycle events land in the renderer.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	// The renderer is injected so child process output streams directly.
	tracer := telemetry.NewOTelTracer("pave").WithRenderer(renderer)

	// 3. Initialize Runner
	run := runner.NewRunner(a.manager, tracer, a.store, a.hasher, a.logger)

	// 4. Run Renderer and Runner concurrently
	g, gctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Runner Routine
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "runner panic: %v\n", r)
			}
			// Ensure the renderer stops when the runner finishes.
			_ = renderer.Stop()
		}()

		runErr := run.Run(gctx, plan, runner.Options{
			SkipUnchanged: opts.SkipUnchanged,
			DryRun:        opts.DryRun,
		})

		message := plan.CompletionMessage
		if opts.DryRun {
			// A dry run completed nothing; ending on the plan is honest.
			message = ""
		}
		renderer.OnRunComplete(message, runErr)

		return runErr
	})

	return g.Wait()
}

// watch re-runs the plan whenever the manifest or configuration changes.
// Interrupting watch mode is a normal exit, not a failure.
func (a *App) watch(ctx context.Context, plan *domain.Plan, opts RunOptions) error {
	w, err := a.newWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to start watch mode")
	}
	defer func() {
		_ = w.Stop()
	}()

	paths := a.watchPaths(plan, opts)
	if err := w.Start(ctx, paths); err != nil {
		return zerr.Wrap(err, "failed to start watch mode")
	}

	a.logger.Info(fmt.Sprintf("watching %s", strings.Join(paths, ", ")))

	// A buffered size-1 channel coalesces triggers that land while a run is
	// in flight; one pending re-run covers any number of edits.
	runs := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		select {
		case runs <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-runs:
			// Re-resolve the plan so configuration edits take effect.
			next, err := a.plan(opts)
			if err != nil {
				a.logger.Error(err)
				continue
			}
			if err := a.runOnce(ctx, next, opts); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// watchPaths lists the files whose changes trigger a re-run.
func (a *App) watchPaths(plan *domain.Plan, opts RunOptions) []string {
	var paths []string

	if step, ok := plan.InstallStep(); ok {
		paths = append(paths, step.ManifestPath)
	}

	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = a.configLoader.ConfigPath(".")
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	return paths
}

// DoctorOptions configuration for the Doctor method.
type DoctorOptions struct {
	Profile    string
	ConfigFile string
}

// Doctor checks that the environment can run the selected profile's setup.
func (a *App) Doctor(ctx context.Context, opts DoctorOptions) error {
	profile, err := a.configLoader.Load(".", opts.ConfigFile, opts.Profile)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return err
	}

	results := doctor.New(a.executor).Run(ctx, profile, root)
	a.printChecks(profile.Name, results)

	if domain.Failed(results) {
		return domain.ErrChecksFailed
	}
	return nil
}

// printChecks renders check results in the same visual language as setup
// output.
func (a *App) printChecks(profileName string, results []domain.CheckResult) {
	out := output.New(a.stdout, output.ProfileFor(detector.IsInteractive()))

	_, _ = fmt.Fprintln(a.stdout, out.String(fmt.Sprintf("Checking environment for profile %q", profileName)).Bold().String())

	failed := false
	for _, r := range results {
		var symbol string
		switch r.Status {
		case domain.StatusOK:
			symbol = out.String(style.Check).Foreground(termenv.ANSIGreen).String()
		case domain.StatusWarn:
			symbol = out.String(style.Warning).Foreground(termenv.ANSIYellow).String()
		case domain.StatusFail:
			symbol = out.String(style.Cross).Foreground(termenv.ANSIRed).String()
			failed = true
		}

		_, _ = fmt.Fprintf(a.stdout, "%s %-12s %s\n", symbol, r.Name, r.Message)
		if r.Recommendation != "" {
			_, _ = fmt.Fprintf(a.stdout, "    %s %s\n", style.Arrow, r.Recommendation)
		}
	}

	if failed {
		_, _ = fmt.Fprintln(a.stdout, out.String("Some checks failed.").Foreground(termenv.ANSIRed).String())
	} else {
		_, _ = fmt.Fprintln(a.stdout, out.String("All checks passed.").Foreground(termenv.ANSIGreen).String())
	}
}

// Clean removes the recorded install state.
func (a *App) Clean(_ context.Context) error {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return err
	}

	path := domain.StateDirPath(root)
	a.logger.Info(fmt.Sprintf("removing %s...", path))
	if err := os.RemoveAll(path); err != nil {
		return zerr.Wrap(err, "failed to remove state directory")
	}
	a.logger.Info("removed install state")

	return nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	// Register a TracerProvider with the bridge as a SpanProcessor so every
	// started span is reported to the renderer.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
