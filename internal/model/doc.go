// Package model defines the domain types and value objects for the
// bake-dev CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (SetupOptions, StageResult, ToolPaths) are transient — they
// live for a single provisioning run and nothing is persisted beyond the
// filesystem paths the pipeline creates or removes.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
