// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/paveproject/pave/internal/adapters/config"
	_ "github.com/paveproject/pave/internal/adapters/fs"
	_ "github.com/paveproject/pave/internal/adapters/logger"
	_ "github.com/paveproject/pave/internal/adapters/pip"
	_ "github.com/paveproject/pave/internal/adapters/shell"
	_ "github.com/paveproject/pave/internal/adapters/state"
	// Register app nodes.
	_ "github.com/paveproject/pave/internal/app"
)
