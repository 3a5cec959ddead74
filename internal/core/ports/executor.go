package ports

import (
	"context"
	"io"

	"github.com/paveproject/pave/internal/core/domain"
)

// Executor runs child processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes the command and waits for it to complete, streaming
	// output to the given writers. A non-zero exit is reported as an error
	// wrapping domain.ExitError so the code survives to main.
	Run(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
