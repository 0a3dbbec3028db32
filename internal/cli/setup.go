// Package cli — setup.go implements the "bake-dev setup" command.
//
// The setup command is the primary user-facing operation. It runs the
// provisioning pipeline end to end, with optional stages selected by
// flags:
//
//	(optional) clean → check → (optional) create venv →
//	(optional) install & register → verify → report
//
// Ordering among the stages that do run is fixed. Any fatal condition
// stops the pipeline immediately with a non-zero exit code; the
// remaining stages, including the success summary, are skipped.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/colbylwilliams/az-bake-dev/internal/azcli"
	"github.com/colbylwilliams/az-bake-dev/internal/azdev"
	"github.com/colbylwilliams/az-bake-dev/internal/config"
	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/python"
	"github.com/colbylwilliams/az-bake-dev/internal/report"
	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// setupFlags holds the flag values for the setup command.
// These are bound to cobra flags in NewSetupCommand.
type setupFlags struct {
	clean     bool   // --clean: run the cleaner before other stages
	skipVenv  bool   // --skip-venv: skip environment creation
	skipAzdev bool   // --skip-azdev: skip tool install and registration
	python    string // --python: interpreter override
	repo      string // --repo: repository root override
}

// NewSetupCommand creates the "setup" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the az bake development environment",
		Long: `Provision the local development environment for the az bake extension.

The command detects a Python 3 interpreter, creates a virtual environment
at the repository root, installs azdev plus the extension's auxiliary
dependencies, registers the extension with azdev, and verifies the
registration with the Azure CLI.

Every stage is idempotent. Use --clean to wipe prior state first, or the
--skip-* flags to run a subset of the pipeline.

Examples:
  bake-dev setup
  bake-dev setup --clean
  bake-dev setup --skip-venv --skip-azdev
  bake-dev setup --python python3.11`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Remove prior environments and build artifacts first")
	cmd.Flags().BoolVar(&flags.skipVenv, "skip-venv", false, "Skip virtual environment creation")
	cmd.Flags().BoolVar(&flags.skipAzdev, "skip-azdev", false, "Skip azdev install and extension registration")
	cmd.Flags().StringVar(&flags.python, "python", "", "Python interpreter to use (default: auto-detect)")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "Repository root (default: auto-detect from cwd)")

	return cmd
}

// runSetup is the main orchestration function for the setup command.
// It coordinates all pipeline stages in their fixed order.
func runSetup(ctx context.Context, flags *setupFlags) error {
	repoRoot, err := resolveRepoRoot(flags.repo)
	if err != nil {
		return err
	}
	VerboseLog("Repository root: %s", repoRoot)

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}
	VerboseLog("Using venv dir %q, extension %q", cfg.VenvDir, cfg.Extension)

	runner := shell.NewExecRunner(verbose)
	rep := report.New(os.Stdout)

	opts := model.SetupOptions{
		Clean:     flags.clean,
		SkipVenv:  flags.skipVenv,
		SkipAzdev: flags.skipAzdev,
		Python:    flags.python,
		RepoRoot:  repoRoot,
	}

	// Stage 1 (optional): clean prior state. The setup-time clean does
	// not sweep bytecode caches — that extra step belongs to the
	// standalone clean command.
	if opts.Clean {
		cleaner := &python.Cleaner{
			RepoRoot:   repoRoot,
			VenvDir:    cfg.VenvDir,
			ActiveVenv: os.Getenv("VIRTUAL_ENV"),
		}
		if err := runCleanStages(cleaner, cfg.SourceDir, rep, false); err != nil {
			rep.Fail("clean", "%v", err)
			rep.Summary()
			return model.WrapCLIError(model.ExitGeneralError, "clean failed", err)
		}
	}

	// Stage 2: prerequisite checks. Interpreter and pip are fatal;
	// az and git only warn.
	pythonCmd, err := checkPrerequisites(ctx, runner, rep, opts.Python)
	if err != nil {
		rep.Summary()
		return err
	}

	paths := python.Paths(repoRoot, cfg.VenvDir)

	// Stage 3 (skippable): create the virtual environment.
	if opts.SkipVenv {
		rep.OK("venv", "skipped (--skip-venv)")
	} else {
		created, err := python.EnsureVenv(ctx, runner, pythonCmd, paths)
		if err != nil {
			rep.Fail("venv", "%v", err)
			rep.Summary()
			return err
		}
		if created {
			rep.OK("venv", "created %s", paths.Root)
		} else {
			rep.OK("venv", "%s already exists", paths.Root)
		}
	}

	// Stage 4 (skippable): install tooling and register the extension.
	if opts.SkipAzdev {
		rep.OK("azdev", "skipped (--skip-azdev)")
	} else {
		if err := runInstallStages(ctx, runner, rep, paths, repoRoot, cfg); err != nil {
			rep.Summary()
			return err
		}
	}

	// Stage 5: verify registration with the Azure CLI. Always runs, and
	// never fails the pipeline — provisioning may have succeeded even if
	// az is not reachable from this shell yet.
	verifyRegistration(ctx, azcli.New(runner), rep, cfg.Extension)

	// Stage 6: report.
	rep.Summary()
	rep.NextSteps(paths, cfg.Extension)
	return nil
}

// runInstallStages performs the tool-install stage: activation check,
// azdev install (with its single visible retry), the tolerant auxiliary
// dependency installs, and extension registration.
func runInstallStages(ctx context.Context, runner shell.Runner, rep *report.Reporter, paths model.ToolPaths, repoRoot string, cfg *config.Config) error {
	installer := azdev.NewInstaller(runner, paths)

	if err := installer.CheckActivation(); err != nil {
		rep.Fail("venv", "%v", err)
		return err
	}

	pipVersion, err := installer.CheckPip(ctx)
	if err != nil {
		rep.Fail("pip", "%v", err)
		return err
	}
	rep.OK("pip", "%s", pipVersion)

	if err := installer.InstallAzdev(ctx); err != nil {
		rep.Fail("azdev", "%v", err)
		return err
	}
	rep.OK("azdev", "installed")

	// Auxiliary dependencies degrade gracefully: a failed install is a
	// warning, never an abort.
	for _, spec := range append(append([]string{}, cfg.PinnedDeps...), cfg.ExtraDeps...) {
		if err := installer.InstallDep(ctx, spec); err != nil {
			rep.Warn("deps", "failed to install %s: %v", spec, err)
			continue
		}
		rep.OK("deps", "installed %s", spec)
	}

	if err := installer.Register(ctx, repoRoot, cfg.Extension); err != nil {
		rep.Fail("azdev setup", "%v", err)
		return err
	}
	rep.OK("azdev setup", "registered extension %q", cfg.Extension)
	return nil
}

// verifyRegistration checks that the extension shows up in the Azure
// CLI's extension list. Any failure downgrades to a warning.
func verifyRegistration(ctx context.Context, lister azcli.ExtensionLister, rep *report.Reporter, extension string) {
	registered, err := azcli.ExtensionRegistered(ctx, lister, extension)
	switch {
	case err != nil:
		rep.Warn("verify", "could not verify registration: %v", err)
	case !registered:
		rep.Warn("verify", "extension %q not listed by az; open a new shell and run `az extension list`", extension)
	default:
		rep.OK("verify", "extension %q is registered", extension)
	}
}

// resolveRepoRoot determines the repository root for the run. An
// explicit --repo value wins; otherwise the current directory and its
// ancestors are searched for the extension source tree (bake/setup.py)
// or, failing that, a .git directory. The current directory is the
// final fallback so the tool still works in a stripped-down checkout.
func resolveRepoRoot(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "invalid --repo path", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "repository root does not exist: "+abs, err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	if root, ok := findRepoRoot(cwd); ok {
		return root, nil
	}
	return cwd, nil
}

// findRepoRoot walks up from dir looking for a directory that contains
// bake/setup.py (the extension source tree) or a .git entry. Returns
// false when neither marker is found before the filesystem root.
func findRepoRoot(dir string) (string, bool) {
	var gitRoot string

	for current := dir; ; {
		if _, err := os.Stat(filepath.Join(current, "bake", "setup.py")); err == nil {
			return current, true
		}
		if gitRoot == "" {
			if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
				gitRoot = current
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if gitRoot != "" {
		return gitRoot, true
	}
	return "", false
}
