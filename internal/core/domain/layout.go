package domain

import "path/filepath"

// Well-known file system names.
const (
	// ConfigFileName is the optional configuration file discovered by
	// walking up from the working directory.
	ConfigFileName = "pave.yaml"
	// StateDirName is the per-project directory holding pave's state.
	StateDirName = ".pave"
	// StateFileName is the install-state file inside StateDirName.
	StateFileName = "state.json"
)

// File system permissions.
const (
	// DirPerm is the mode for directories pave creates.
	DirPerm = 0o750
	// FilePerm is the mode for files pave writes.
	FilePerm = 0o644
)

// StateDirPath returns the state directory under the given project root.
func StateDirPath(root string) string {
	return filepath.Join(root, StateDirName)
}

// StateFilePath returns the install-state file under the given project root.
func StateFilePath(root string) string {
	return filepath.Join(StateDirPath(root), StateFileName)
}
