// Package state persists install state in a flat JSON file.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StateStore = (*Store)(nil)

// Store implements ports.StateStore using a flat JSON file keyed by profile.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.InstallState
}

// NewStore creates a StateStore backed by the file at the given path.
// A missing file is fine; a corrupt one is an error so callers can decide
// whether to start fresh.
func NewStore(path string) (*Store, error) {
	s := NewEmptyStore(path)
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewEmptyStore creates a StateStore at the given path without reading any
// existing file. The next Put overwrites whatever is on disk.
func NewEmptyStore(path string) *Store {
	return &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.InstallState),
	}
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		readErr := zerr.Wrap(err, domain.ErrStateReadFailed.Error())
		return zerr.With(readErr, "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		parseErr := zerr.Wrap(err, domain.ErrStateParseFailed.Error())
		return zerr.With(parseErr, "path", s.path)
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		writeErr := zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
		return zerr.With(writeErr, "path", dir)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		writeErr := zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
		return zerr.With(writeErr, "path", s.path)
	}

	return nil
}

// Get retrieves the install state for a profile.
func (s *Store) Get(profile string) (*domain.InstallState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.cache[profile]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// Put stores the install state for its profile.
func (s *Store) Put(state domain.InstallState) error {
	s.mu.Lock()
	s.cache[state.Profile] = state
	s.mu.Unlock()

	return s.save()
}
