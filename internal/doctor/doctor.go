// Package doctor verifies that a machine can run setup.
package doctor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
)

// Doctor probes the environment a profile needs. Checks never mutate
// anything; reporting problems is the whole job.
type Doctor struct {
	executor ports.Executor
}

// New creates a Doctor that probes commands through the given executor.
func New(executor ports.Executor) *Doctor {
	return &Doctor{executor: executor}
}

// Run executes all checks for the profile and returns their results in a
// stable order. A failed probe never stops the remaining checks.
func (d *Doctor) Run(ctx context.Context, profile domain.Profile, root string) []domain.CheckResult {
	results := []domain.CheckResult{
		d.CheckInterpreter(ctx, profile),
		d.CheckPackageManager(ctx, profile),
		d.CheckManifest(profile),
	}
	results = append(results, d.CheckEnvironment(profile)...)
	results = append(results, d.CheckStateDir(root))
	return results
}

// CheckInterpreter verifies the profile's interpreter exists and runs.
func (d *Doctor) CheckInterpreter(ctx context.Context, profile domain.Profile) domain.CheckResult {
	version, err := d.probe(ctx, profile.Interpreter, "--version")
	if err != nil {
		return domain.CheckResult{
			Name:           "interpreter",
			Status:         domain.StatusFail,
			Message:        fmt.Sprintf("%s is not runnable: %v", profile.Interpreter, err),
			Recommendation: "install Python 3 or point the profile's interpreter at an existing one",
		}
	}

	return domain.CheckResult{
		Name:    "interpreter",
		Status:  domain.StatusOK,
		Message: fmt.Sprintf("%s (%s)", profile.Interpreter, version),
	}
}

// CheckPackageManager verifies pip is importable by the interpreter.
func (d *Doctor) CheckPackageManager(ctx context.Context, profile domain.Profile) domain.CheckResult {
	version, err := d.probe(ctx, profile.Interpreter, "-m", "pip", "--version")
	if err != nil {
		return domain.CheckResult{
			Name:           "pip",
			Status:         domain.StatusFail,
			Message:        fmt.Sprintf("%s cannot run pip: %v", profile.Interpreter, err),
			Recommendation: fmt.Sprintf("run `%s -m ensurepip --upgrade` to bootstrap pip", profile.Interpreter),
		}
	}

	return domain.CheckResult{
		Name:    "pip",
		Status:  domain.StatusOK,
		Message: version,
	}
}

// CheckManifest verifies the dependency manifest is present. Contents stay
// opaque; an empty file is only worth a warning because pip accepts it.
func (d *Doctor) CheckManifest(profile domain.Profile) domain.CheckResult {
	info, err := os.Stat(profile.Manifest)
	switch {
	case err != nil:
		return domain.CheckResult{
			Name:           "manifest",
			Status:         domain.StatusFail,
			Message:        fmt.Sprintf("%s not found", profile.Manifest),
			Recommendation: "create the manifest or point the profile at an existing one",
		}
	case info.IsDir():
		return domain.CheckResult{
			Name:    "manifest",
			Status:  domain.StatusFail,
			Message: fmt.Sprintf("%s is a directory, not a file", profile.Manifest),
		}
	case info.Size() == 0:
		return domain.CheckResult{
			Name:    "manifest",
			Status:  domain.StatusWarn,
			Message: fmt.Sprintf("%s is empty, install will be a no-op", profile.Manifest),
		}
	default:
		return domain.CheckResult{
			Name:    "manifest",
			Status:  domain.StatusOK,
			Message: profile.Manifest,
		}
	}
}

// CheckEnvironment verifies the profile's required environment variables are
// set. Values are never printed.
func (d *Doctor) CheckEnvironment(profile domain.Profile) []domain.CheckResult {
	if len(profile.RequiredEnv) == 0 {
		return []domain.CheckResult{{
			Name:    "environment",
			Status:  domain.StatusOK,
			Message: "no required environment variables",
		}}
	}

	results := make([]domain.CheckResult, 0, len(profile.RequiredEnv))
	for _, name := range profile.RequiredEnv {
		if os.Getenv(name) == "" {
			results = append(results, domain.CheckResult{
				Name:           "environment",
				Status:         domain.StatusFail,
				Message:        fmt.Sprintf("%s is not set", name),
				Recommendation: fmt.Sprintf("export %s before running setup", name),
			})
			continue
		}
		results = append(results, domain.CheckResult{
			Name:    "environment",
			Status:  domain.StatusOK,
			Message: fmt.Sprintf("%s is set", name),
		})
	}
	return results
}

// CheckStateDir verifies nothing is in the way of the state directory.
// The directory itself is created lazily on first run, so absence is fine.
func (d *Doctor) CheckStateDir(root string) domain.CheckResult {
	path := domain.StateDirPath(root)

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return domain.CheckResult{
			Name:    "state",
			Status:  domain.StatusOK,
			Message: fmt.Sprintf("%s will be created on first run", path),
		}
	case !info.IsDir():
		return domain.CheckResult{
			Name:           "state",
			Status:         domain.StatusFail,
			Message:        fmt.Sprintf("%s exists but is not a directory", path),
			Recommendation: fmt.Sprintf("remove the file at %s", path),
		}
	default:
		return domain.CheckResult{
			Name:    "state",
			Status:  domain.StatusOK,
			Message: path,
		}
	}
}

// probe runs a short command and returns the first line of its output.
func (d *Doctor) probe(ctx context.Context, program string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := &domain.Command{Argv: append([]string{program}, args...)}

	if err := d.executor.Run(ctx, cmd, &buf, &buf); err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(buf.String(), "\n")
	return strings.TrimSpace(line), nil
}
