package domain

import "go.trai.ch/zerr"

// Configuration errors.
var (
	// ErrConfigNotFound indicates no configuration file was found. Callers
	// normally treat this as "use built-in defaults" rather than a failure.
	ErrConfigNotFound = zerr.New("configuration file not found")
	// ErrConfigReadFailed indicates the configuration file could not be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration file")
	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse configuration file")
	// ErrConfigValidation indicates the configuration file is semantically invalid.
	ErrConfigValidation = zerr.New("configuration validation failed")
	// ErrUnknownProfile indicates the requested profile is not defined.
	ErrUnknownProfile = zerr.New("unknown profile")
)

// Setup execution errors.
var (
	// ErrSetupFailed indicates the setup sequence aborted on a failing step.
	ErrSetupFailed = zerr.New("setup failed")
	// ErrUpgradeFailed indicates the packaging toolchain upgrade failed.
	ErrUpgradeFailed = zerr.New("toolchain upgrade failed")
	// ErrInstallFailed indicates the dependency installation failed.
	ErrInstallFailed = zerr.New("dependency installation failed")
	// ErrInterpreterNotFound indicates the configured interpreter is not on PATH.
	ErrInterpreterNotFound = zerr.New("interpreter not found")
	// ErrEmptyPlan indicates a plan with no steps was submitted.
	ErrEmptyPlan = zerr.New("plan contains no steps")
	// ErrUnknownStepKind indicates a plan step with an unrecognized kind.
	ErrUnknownStepKind = zerr.New("unknown step kind")
	// ErrEmptyCommand indicates a command with no argv was submitted.
	ErrEmptyCommand = zerr.New("command is empty")
)

// State store errors.
var (
	// ErrStateReadFailed indicates the state file could not be read.
	ErrStateReadFailed = zerr.New("failed to read state file")
	// ErrStateParseFailed indicates the state file could not be unmarshaled.
	ErrStateParseFailed = zerr.New("failed to parse state file")
	// ErrStateWriteFailed indicates the state file could not be written.
	ErrStateWriteFailed = zerr.New("failed to write state file")
)

// Diagnosis errors.
var (
	// ErrChecksFailed indicates one or more doctor checks failed.
	ErrChecksFailed = zerr.New("environment checks failed")
)

// Watch mode errors.
var (
	// ErrWatcherClosed indicates the file watcher terminated unexpectedly.
	ErrWatcherClosed = zerr.New("file watcher closed")
)
