// Package detector provides terminal environment detection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsCI reports whether a CI environment variable is set.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// IsInteractive reports whether the process is driven by a human terminal
// session. Interactive runs get a PTY for child processes and full color
// output; everything else gets pipes and CI-safe colors.
func IsInteractive() bool {
	return IsTTY() && !IsCI()
}
