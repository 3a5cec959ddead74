// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// PackageManager owns all interaction with the package environment.
// Implementations stream the underlying tool's output to the given writers as
// it is produced; nothing is held back for later.
//
//go:generate mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageManager interface {
	// Upgrade brings the packaging tools themselves up to date in a single
	// transaction. A non-zero exit from the underlying tool is returned as
	// an error carrying the verbatim exit code.
	Upgrade(ctx context.Context, interpreter string, tools []string, stdout, stderr io.Writer) error

	// Install installs dependencies from the manifest at the given path.
	// The manifest is handed over untouched; its contents are the package
	// manager's business, including reporting a missing or malformed file.
	Install(ctx context.Context, interpreter, manifestPath string, stdout, stderr io.Writer) error
}
