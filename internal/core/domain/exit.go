package domain

import (
	"errors"
	"strconv"
)

// ExitError carries the exit status of a child process so it can survive
// wrapping on the way up to main, where the process exits with the same code.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// ExitCode derives the process exit code from an error chain.
// A wrapped ExitError yields its verbatim code, any other error yields 1,
// and nil yields 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}
