// Package model defines the domain types for the bake-dev CLI.
//
// The provisioning pipeline is a linear sequence of stages. Each stage
// records exactly one StageResult, and the accumulated results drive the
// final report and the process exit code. Types here are set once and
// read thereafter — nothing is mutated retroactively.
package model

import (
	"fmt"
	"strings"
)

// Outcome represents the severity of a completed pipeline stage.
//
// The three levels map directly to pipeline behavior:
//
//	OK   → stage succeeded, pipeline continues
//	WARN → optional signal unavailable, pipeline continues
//	FAIL → fatal, pipeline halts with a non-zero exit code
type Outcome string

const (
	// OutcomeOK indicates the stage completed successfully.
	OutcomeOK Outcome = "ok"

	// OutcomeWarn indicates an optional capability was unavailable or
	// unverifiable. The pipeline continues; the warning is surfaced in
	// the final summary.
	OutcomeWarn Outcome = "warn"

	// OutcomeFail indicates a fatal condition. No further stages run and
	// the process exits non-zero.
	OutcomeFail Outcome = "fail"
)

// String returns the string representation of Outcome.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI summaries.
func (o Outcome) String() string {
	return string(o)
}

// IsValid checks whether the Outcome value is one of the
// predefined valid severities.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeOK, OutcomeWarn, OutcomeFail:
		return true
	default:
		return false
	}
}

// ParseOutcome converts a string to an Outcome.
// Returns an error if the string does not match any valid severity.
func ParseOutcome(s string) (Outcome, error) {
	outcome := Outcome(strings.ToLower(s))
	if !outcome.IsValid() {
		return "", fmt.Errorf("invalid outcome: %q (valid: ok, warn, fail)", s)
	}
	return outcome, nil
}

// StageResult records the outcome of a single pipeline stage.
// Results are appended in execution order and never mutated afterwards;
// the reporter replays them verbatim in the final summary.
type StageResult struct {
	// Stage is the short name of the pipeline stage (e.g., "python",
	// "venv", "azdev setup").
	Stage string `json:"stage"`

	// Outcome is the severity the stage concluded with.
	Outcome Outcome `json:"outcome"`

	// Message is the human-readable detail for this stage, such as a
	// discovered version string or the path that was created/removed.
	Message string `json:"message"`
}

// String returns a single summary line for the stage result.
// Format: "[ OK ] stage: message".
func (r StageResult) String() string {
	return fmt.Sprintf("[%s] %s: %s", r.Outcome.badge(), r.Stage, r.Message)
}

// badge returns the fixed-width, upper-case marker used in terminal
// output so stage lines align vertically.
func (o Outcome) badge() string {
	switch o {
	case OutcomeOK:
		return " OK "
	case OutcomeWarn:
		return "WARN"
	case OutcomeFail:
		return "FAIL"
	default:
		return " ?? "
	}
}

// SetupOptions holds the stage-selection flags for a provisioning run.
// It is constructed once from command-line arguments and is immutable
// for the duration of the run.
type SetupOptions struct {
	// Clean runs the environment cleaner before any other stage.
	Clean bool

	// SkipVenv skips virtual environment creation. The rest of the
	// pipeline still resolves paths against the expected venv location.
	SkipVenv bool

	// SkipAzdev skips tool installation and extension registration.
	SkipAzdev bool

	// Python overrides interpreter resolution. When set, the named
	// command must exist on PATH; there is no fallback to auto-detection.
	Python string

	// RepoRoot is the absolute path to the az-bake repository root.
	RepoRoot string
}

// ToolPaths holds the resolved locations inside a virtual environment.
// Paths are resolved once, after the environment root is known, and every
// subsequent stage reads them without owning the filesystem entities.
type ToolPaths struct {
	// Root is the absolute path to the virtual environment directory.
	Root string `json:"root"`

	// Python is the path to the environment's interpreter executable.
	Python string `json:"python"`

	// Azdev is the path to the azdev executable installed into the
	// environment's bin (or Scripts) directory.
	Azdev string `json:"azdev"`

	// Activate is the path to the activation entry point. Its presence
	// is the marker that environment creation produced a usable venv.
	Activate string `json:"activate"`

	// ActivateCommand is the shell command an operator runs to activate
	// the environment interactively (platform-specific).
	ActivateCommand string `json:"activateCommand"`
}

// ExitCode defines standard CLI exit codes for the provisioning pipeline.
// These codes allow scripts and CI systems to programmatically determine
// which stage failed.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPythonNotFound indicates no suitable Python 3 interpreter was
	// found, or an explicit --python override was not on PATH.
	ExitPythonNotFound ExitCode = 2

	// ExitPipNotFound indicates the resolved interpreter has no working
	// pip module, so nothing can be installed.
	ExitPipNotFound ExitCode = 3

	// ExitVenvCreateFailed indicates virtual environment creation failed,
	// or the created environment is missing its activation entry point.
	ExitVenvCreateFailed ExitCode = 4

	// ExitInstallFailed indicates the azdev install failed even after the
	// single visible retry.
	ExitInstallFailed ExitCode = 5

	// ExitRegistrationFailed indicates `azdev setup` failed to register
	// the extension for development.
	ExitRegistrationFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
