// Package cli — check.go implements the "bake-dev check" command and the
// shared prerequisite-checking stage used by setup.
//
// Each check is independent and read-only. The interpreter and its pip
// module are hard requirements — without a package installer the rest of
// the pipeline cannot proceed — while the Azure CLI and git only produce
// warnings when absent.
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colbylwilliams/az-bake-dev/internal/azcli"
	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/python"
	"github.com/colbylwilliams/az-bake-dev/internal/report"
	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// checkFlags holds the flag values for the check command.
type checkFlags struct {
	python string // --python: interpreter override
}

// NewCheckCommand creates the "check" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check development prerequisites without changing anything",
		Long: `Check that the tools required for az bake extension development are
available: a Python 3 interpreter, pip, the Azure CLI, and git.

The command performs read-only detection — nothing is installed or
modified. A missing interpreter or pip fails the check; a missing Azure
CLI or git only produces a warning.

Examples:
  bake-dev check
  bake-dev check --python python3.11`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Python interpreter to use (default: auto-detect)")

	return cmd
}

// runCheck is the main logic function for the check command.
func runCheck(ctx context.Context, flags *checkFlags) error {
	runner := shell.NewExecRunner(verbose)
	rep := report.New(os.Stdout)

	if _, err := checkPrerequisites(ctx, runner, rep, flags.python); err != nil {
		rep.Summary()
		return err
	}

	rep.Summary()
	return nil
}

// checkPrerequisites runs the prerequisite stage and returns the
// resolved interpreter command. It records one result per tool:
//
//	python — fatal when no Python 3 interpreter resolves
//	pip    — fatal when the resolved interpreter has no pip module
//	az     — warning when the Azure CLI is absent
//	git    — warning when git is absent
//
// Version strings that fail to parse degrade to the literal "unknown"
// rather than propagating a parse error.
func checkPrerequisites(ctx context.Context, runner shell.Runner, rep *report.Reporter, pythonOverride string) (string, error) {
	pythonCmd, err := python.Resolve(ctx, runner, pythonOverride, nil)
	if err != nil {
		rep.Fail("python", "%v", err)
		return "", err
	}

	version, err := python.Version(ctx, runner, pythonCmd)
	if err != nil || version == "" {
		version = "unknown"
	}
	rep.OK("python", "%s (%s)", pythonCmd, version)

	pipVersion, err := runner.Output(ctx, pythonCmd, "-m", "pip", "--version")
	if err != nil {
		cliErr := model.WrapCLIError(model.ExitPipNotFound,
			"pip is not available for "+pythonCmd+"; install pip and retry", err)
		rep.Fail("pip", "%v", cliErr)
		return "", cliErr
	}
	rep.OK("pip", "%s", firstLine(pipVersion))

	azVersion, err := azcli.New(runner).Version(ctx)
	if err != nil {
		rep.Warn("az", "Azure CLI not detected; install it to test the extension locally")
	} else {
		rep.OK("az", "azure-cli %s", azVersion)
	}

	gitVersion, err := runner.Output(ctx, "git", "--version")
	if err != nil {
		rep.Warn("git", "git not detected; version control operations will be unavailable")
	} else {
		rep.OK("git", "%s", firstLine(gitVersion))
	}

	return pythonCmd, nil
}

// firstLine trims tool output to its first line. Some tools (pip among
// them) append wrapped path noise after the version banner.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
