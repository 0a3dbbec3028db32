// Package cli — clean.go implements the "bake-dev clean" command.
//
// The clean command is the remove-only variant of the pipeline: it wipes
// virtual environments, build artifacts, and — unlike the --clean flag
// of setup — every __pycache__ directory under the repository root.
// Every step tolerates its target not existing, so running clean twice
// reports zero items removed the second time instead of erroring.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/colbylwilliams/az-bake-dev/internal/config"
	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/python"
	"github.com/colbylwilliams/az-bake-dev/internal/report"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	repo string // --repo: repository root override
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the development environment and build artifacts",
		Long: `Remove all local development environment state:

  - virtual environment directories at the repository root (.venv*)
  - build, dist, and *.egg-info directories under the extension source
  - every __pycache__ directory under the repository root

The command is idempotent — cleaning an already-clean repository reports
nothing to remove and exits successfully.

Examples:
  bake-dev clean
  bake-dev clean --repo ~/src/az-bake`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	cmd.Flags().StringVar(&flags.repo, "repo", "", "Repository root (default: auto-detect from cwd)")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(flags *cleanFlags) error {
	repoRoot, err := resolveRepoRoot(flags.repo)
	if err != nil {
		return err
	}
	VerboseLog("Repository root: %s", repoRoot)

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}

	rep := report.New(os.Stdout)
	cleaner := &python.Cleaner{
		RepoRoot:   repoRoot,
		VenvDir:    cfg.VenvDir,
		ActiveVenv: os.Getenv("VIRTUAL_ENV"),
	}

	if err := runCleanStages(cleaner, cfg.SourceDir, rep, true); err != nil {
		rep.Fail("clean", "%v", err)
		rep.Summary()
		return model.WrapCLIError(model.ExitGeneralError, "clean failed", err)
	}

	rep.Summary()
	return nil
}

// runCleanStages executes the cleaner's ordered steps and records a
// result per step. The bytecode-cache sweep only runs for the standalone
// clean command (withCaches), matching the remove-only variant of the
// original workflow.
//
// Shared between `bake-dev clean` and `bake-dev setup --clean`.
func runCleanStages(cleaner *python.Cleaner, sourceDir string, rep *report.Reporter, withCaches bool) error {
	// An active environment cannot be deactivated from a subprocess;
	// surface a note and move on. This must never block cleanup.
	if note, active := cleaner.Deactivate(); active {
		rep.Warn("clean", "%s", note)
	}

	removed, err := cleaner.RemoveVenvs()
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		rep.OK("clean", "no environment directories to remove")
	}
	for _, path := range removed {
		rep.OK("clean", "removed %s", path)
	}

	artifacts, err := cleaner.RemoveBuildArtifacts(sourceDir)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		rep.OK("clean", "no build artifacts to remove")
	}
	for _, path := range artifacts {
		rep.OK("clean", "removed %s", path)
	}

	if withCaches {
		count, err := cleaner.RemoveBytecodeCaches()
		if err != nil {
			return err
		}
		rep.OK("clean", "removed %d __pycache__ director%s", count, pluralY(count))
	}

	return nil
}

// pluralY returns the correct "-y"/"-ies" suffix stem for a count.
func pluralY(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
