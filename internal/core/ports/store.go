package ports

import "github.com/paveproject/pave/internal/core/domain"

// StateStore persists install state between runs.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Get retrieves the install state for a profile.
	// Returns nil, nil if not found.
	Get(profile string) (*domain.InstallState, error)

	// Put stores the install state for its profile.
	Put(state domain.InstallState) error
}
