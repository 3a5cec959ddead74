// Package pip implements the package manager port on top of the pip CLI.
package pip

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageManager = (*Manager)(nil)

// Manager implements ports.PackageManager by driving pip through the
// configured interpreter. Every invocation goes through `<interpreter> -m pip`
// so the pip that runs always belongs to the interpreter that will run the
// application.
type Manager struct {
	executor ports.Executor
}

// NewManager creates a new PackageManager backed by the pip CLI.
func NewManager(executor ports.Executor) *Manager {
	return &Manager{executor: executor}
}

// Upgrade brings the packaging tools up to date in one pip transaction.
func (m *Manager) Upgrade(ctx context.Context, interpreter string, tools []string, stdout, stderr io.Writer) error {
	if len(tools) == 0 {
		return zerr.With(domain.ErrUpgradeFailed, "reason", "no packaging tools configured")
	}

	argv := append([]string{interpreter, "-m", "pip", "install", "--upgrade"}, tools...)
	cmd := &domain.Command{Argv: argv}

	if err := m.executor.Run(ctx, cmd, stdout, stderr); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			notFound := zerr.Wrap(err, domain.ErrInterpreterNotFound.Error())
			return zerr.With(notFound, "interpreter", interpreter)
		}

		upErr := zerr.Wrap(err, domain.ErrUpgradeFailed.Error())
		upErr = zerr.With(upErr, "interpreter", interpreter)
		return zerr.With(upErr, "tools", strings.Join(tools, ", "))
	}

	return nil
}

// Install installs dependencies from the manifest. The path is handed to pip
// untouched; a missing or malformed manifest is pip's error to report.
func (m *Manager) Install(ctx context.Context, interpreter, manifestPath string, stdout, stderr io.Writer) error {
	if manifestPath == "" {
		return zerr.With(domain.ErrInstallFailed, "reason", "no manifest configured")
	}

	cmd := &domain.Command{
		Argv: []string{interpreter, "-m", "pip", "install", "-r", manifestPath},
	}

	if err := m.executor.Run(ctx, cmd, stdout, stderr); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			notFound := zerr.Wrap(err, domain.ErrInterpreterNotFound.Error())
			return zerr.With(notFound, "interpreter", interpreter)
		}

		instErr := zerr.Wrap(err, domain.ErrInstallFailed.Error())
		instErr = zerr.With(instErr, "interpreter", interpreter)
		return zerr.With(instErr, "manifest", manifestPath)
	}

	return nil
}
