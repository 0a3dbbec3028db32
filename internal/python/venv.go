package python

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// Paths resolves the tool locations inside the virtual environment at
// <repoRoot>/<venvDir> for the current platform. It is a pure path
// computation — the environment does not need to exist yet.
func Paths(repoRoot, venvDir string) model.ToolPaths {
	return pathsFor(repoRoot, venvDir, runtime.GOOS)
}

// pathsFor is the platform-parameterized implementation behind Paths.
// POSIX venvs use bin/ with extensionless executables and a sourceable
// activate script; Windows venvs use Scripts\ with .exe executables and
// an Activate.ps1 entry point.
func pathsFor(repoRoot, venvDir, goos string) model.ToolPaths {
	root := filepath.Join(repoRoot, venvDir)

	if goos == "windows" {
		scripts := filepath.Join(root, "Scripts")
		return model.ToolPaths{
			Root:            root,
			Python:          filepath.Join(scripts, "python.exe"),
			Azdev:           filepath.Join(scripts, "azdev.exe"),
			Activate:        filepath.Join(scripts, "Activate.ps1"),
			ActivateCommand: ".\\" + filepath.Join(venvDir, "Scripts", "Activate.ps1"),
		}
	}

	bin := filepath.Join(root, "bin")
	return model.ToolPaths{
		Root:            root,
		Python:          filepath.Join(bin, "python"),
		Azdev:           filepath.Join(bin, "azdev"),
		Activate:        filepath.Join(bin, "activate"),
		ActivateCommand: "source " + venvDir + "/bin/activate",
	}
}

// EnsureVenv creates the virtual environment if it does not already
// exist. Creation is idempotent: an existing environment directory is
// reported as success without touching it or invoking the interpreter.
//
// The returned bool is true when a new environment was actually created.
// A failed creation command is fatal — an unusable interpreter state
// cannot be worked around further down the pipeline.
func EnsureVenv(ctx context.Context, r shell.Runner, pythonCmd string, paths model.ToolPaths) (bool, error) {
	if _, err := os.Stat(paths.Root); err == nil {
		return false, nil
	}

	err := r.RunQuiet(ctx, "creating virtual environment "+paths.Root,
		pythonCmd, "-m", "venv", paths.Root)
	if err != nil {
		return false, model.WrapCLIError(model.ExitVenvCreateFailed,
			"failed to create virtual environment at "+paths.Root, err)
	}
	return true, nil
}
