// Package shell provides a process executor for running package manager
// commands.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec, with an optional PTY so
// interactive terminals get the tool's live progress output.
type Executor struct {
	logger ports.Logger
	pty    bool
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// WithPTY enables or disables PTY execution. With a PTY the child's stdout
// and stderr are merged into the stdout writer, matching what a terminal
// user sees.
func (e *Executor) WithPTY(enable bool) *Executor {
	e.pty = enable
	return e
}

// Run executes the command and waits for completion, streaming output to the
// given writers. A non-zero exit is returned wrapping domain.ExitError so the
// verbatim code survives to main.
func (e *Executor) Run(ctx context.Context, command *domain.Command, stdout, stderr io.Writer) error {
	if command == nil || len(command.Argv) == 0 {
		return domain.ErrEmptyCommand
	}

	name := command.Argv[0]
	args := command.Argv[1:]

	env := resolveEnvironment(os.Environ(), command.Env)

	// Resolve the executable before spawning so a missing program yields a
	// clear error instead of a confusing child failure.
	executable := name
	if !filepath.IsAbs(name) {
		lp, err := lookPath(name, env)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "executable not found"), "program", name)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // argv comes from resolved profile
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = command.Dir
	cmd.Env = env

	var err error
	if e.pty {
		err = e.runPTY(cmd, stdout)
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		err = cmd.Run()
	}

	if err != nil {
		return wrapExitError(err)
	}
	return nil
}

// runPTY runs the command attached to a pseudo-terminal, copying the merged
// output stream to stdout. Falls back to plain pipes if the PTY cannot be
// allocated.
func (e *Executor) runPTY(cmd *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("pty unavailable, falling back to pipes")
		}
		cmd.Stdout = stdout
		cmd.Stderr = stdout
		return cmd.Run()
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The PTY merges stdout and stderr into one stream.
		_, _ = io.Copy(stdout, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone
	return waitErr
}

// wrapExitError converts a child process failure into a zerr chain carrying
// domain.ExitError.
func wrapExitError(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.Wrap(err, "command failed")
	}

	code := exitErr.ExitCode()
	if code == -1 {
		// Terminated by signal. Follow shell convention of 128+signal.
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		} else {
			code = 1
		}
	}

	wrapped := zerr.Wrap(&domain.ExitError{Code: code}, "command failed")
	return zerr.With(wrapped, "exit_code", code)
}

// resolveEnvironment merges overrides onto the full system environment.
// Unlike hermetic build tools, a setup runner must let proxy settings,
// virtualenv markers, and tool-specific variables through untouched.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return sysEnv
	}

	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	order := make([]string, 0, len(sysEnv)+len(overrides))

	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
