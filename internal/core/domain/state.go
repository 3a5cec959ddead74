package domain

import "time"

// InstallState records a completed install step so unchanged manifests can be
// skipped on request. The state is advisory: losing it only costs one extra
// pip invocation.
type InstallState struct {
	Profile      string    `json:"profile"`
	ManifestPath string    `json:"manifest_path"`
	ManifestHash string    `json:"manifest_hash"`
	Interpreter  string    `json:"interpreter"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Matches reports whether a recorded state covers the given manifest hash
// under the same interpreter and manifest path.
func (s *InstallState) Matches(manifestPath, manifestHash, interpreter string) bool {
	return s != nil &&
		s.ManifestPath == manifestPath &&
		s.ManifestHash == manifestHash &&
		s.Interpreter == interpreter
}
