// Package cli implements the cobra-based CLI commands for bake-dev.
//
// Each subcommand (setup, clean, check) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
)

// verbose enables detailed logging output for debugging. It is bound to
// a cobra persistent flag on the root command, which makes it available
// to every subcommand automatically. When true, subprocess output that
// would normally be captured is shown in full.
var verbose bool

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (setup, clean, check).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bake-dev",
		Short: "Development environment provisioner for the az bake extension",
		Long: `bake-dev provisions a local development environment for the az bake
Azure CLI extension.

It creates an isolated Python virtual environment at the repository root,
installs azdev and the extension's auxiliary dependencies into it, and
registers the extension with azdev for development-mode use. Every stage
is idempotent: re-running setup on an already-provisioned repository is
safe and fast.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves in Execute.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands. Any flag defined
	// here is automatically available in every subcommand without
	// re-declaration.
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show full output of external tools")

	// Register subcommands. Each subcommand is defined in its own file
	// (setup.go, clean.go, check.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewCleanCommand())
	rootCmd.AddCommand(NewCheckCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors (including unknown flags rejected by cobra
// before any stage runs) default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error to stderr, distinct from the status lines
// the pipeline writes to stdout.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled. Used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
