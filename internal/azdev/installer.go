package azdev

import (
	"context"
	"fmt"
	"os"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// Installer installs development tooling into a virtual environment.
// All installs run through the environment's own interpreter
// (`<venv python> -m pip ...`), which is the subprocess equivalent of
// activating the environment first.
type Installer struct {
	runner shell.Runner
	paths  model.ToolPaths
}

// NewInstaller creates an Installer bound to a runner and resolved
// environment paths.
func NewInstaller(runner shell.Runner, paths model.ToolPaths) *Installer {
	return &Installer{runner: runner, paths: paths}
}

// CheckActivation verifies the environment exposes its activation entry
// point and interpreter. A missing entry point means environment
// creation did not produce a usable venv, which is fatal: every
// subsequent install would run against the wrong interpreter.
func (i *Installer) CheckActivation() error {
	for _, path := range []string{i.paths.Activate, i.paths.Python} {
		if _, err := os.Stat(path); err != nil {
			return model.WrapCLIError(model.ExitVenvCreateFailed,
				fmt.Sprintf("virtual environment at %s is missing %s; re-run with --clean to recreate it", i.paths.Root, path), err)
		}
	}
	return nil
}

// CheckPip verifies the environment's interpreter has a working pip
// module and returns its version banner. Without pip nothing else can
// be installed, so a failure here is fatal.
func (i *Installer) CheckPip(ctx context.Context) (string, error) {
	banner, err := i.runner.Output(ctx, i.paths.Python, "-m", "pip", "--version")
	if err != nil {
		return "", model.WrapCLIError(model.ExitPipNotFound,
			"pip is not available in the virtual environment", err)
	}
	return banner, nil
}

// InstallAzdev installs the azdev tool into the environment.
//
// The first attempt runs quietly. If it fails, exactly one retry runs
// with full output visible so the operator can see what pip is unhappy
// about; a second failure is fatal.
func (i *Installer) InstallAzdev(ctx context.Context) error {
	err := i.runner.RunQuiet(ctx, "installing azdev",
		i.paths.Python, "-m", "pip", "install", "azdev")
	if err == nil {
		return nil
	}

	fmt.Fprintln(os.Stderr, "azdev install failed, retrying with verbose output...")
	err = i.runner.Run(ctx, i.paths.Python, "-m", "pip", "install", "azdev")
	if err != nil {
		return model.WrapCLIError(model.ExitInstallFailed, "failed to install azdev", err)
	}
	return nil
}

// InstallDep installs a single dependency specifier (e.g.
// "packaging==21.3" or "pyyaml") quietly. Callers decide the failure
// policy; for auxiliary dependencies the returned error is recorded as
// a warning and the pipeline continues.
func (i *Installer) InstallDep(ctx context.Context, spec string) error {
	return i.runner.RunQuiet(ctx, "installing "+spec,
		i.paths.Python, "-m", "pip", "install", spec)
}

// Register runs `azdev setup` to register the extension's source tree
// for development-mode use. Failure is fatal, and the error carries the
// exact command the operator can re-run manually after fixing whatever
// azdev complained about.
func (i *Installer) Register(ctx context.Context, repoRoot, extension string) error {
	err := i.runner.RunQuiet(ctx, "registering extension "+extension+" with azdev",
		i.paths.Azdev, "setup", "--repo", repoRoot, "--ext", extension)
	if err != nil {
		remediation := fmt.Sprintf("%s setup --repo %s --ext %s", i.paths.Azdev, repoRoot, extension)
		return model.WrapCLIError(model.ExitRegistrationFailed,
			"azdev setup failed; to retry manually, run: "+remediation, err)
	}
	return nil
}
