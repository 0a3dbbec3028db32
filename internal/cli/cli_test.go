// Package cli — cli_test.go contains unit tests for the command wiring
// and the pure helper functions used by the pipeline orchestration.
//
// These tests exercise flag handling, repository root detection, the
// shared clean stage driver, and the verification stage — all without
// spawning real external tools.
package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/python"
	"github.com/colbylwilliams/az-bake-dev/internal/report"
)

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// TestHelpIsSideEffectFree verifies that --help succeeds without
// touching the filesystem: no venv, no cleanup, nothing.
func TestHelpIsSideEffectFree(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{"--help"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	assert.NoError(t, err, "--help must succeed")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "--help must not create anything")
}

// TestSetupHelp verifies subcommand help also succeeds cleanly.
func TestSetupHelp(t *testing.T) {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{"setup", "--help"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	assert.NoError(t, rootCmd.Execute())
}

// TestUnknownFlagFailsBeforeStages verifies an unrecognized flag is
// rejected during parsing — before any pipeline stage can run — and
// surfaces as an error from Execute.
func TestUnknownFlagFailsBeforeStages(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{"setup", "--bogus"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	// No environment directory may exist — the pipeline never started.
	assert.NoDirExists(t, filepath.Join(dir, ".venv"))
}

// TestPythonFlagRequiresValue verifies --python with no following value
// is a parse error, not a silently empty override.
func TestPythonFlagRequiresValue(t *testing.T) {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs([]string{"setup", "--python"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	assert.Error(t, rootCmd.Execute())
}

// TestFindRepoRoot verifies the upward search finds the directory
// containing the extension source tree from a nested cwd.
func TestFindRepoRoot(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, "bake"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "bake", "setup.py"), []byte("#"), 0o644))

	nested := filepath.Join(repoRoot, "bake", "azext_bake")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok := findRepoRoot(nested)
	require.True(t, ok)
	assert.Equal(t, repoRoot, got)
}

// TestFindRepoRootGitFallback verifies a .git directory is used when no
// extension source tree exists above the cwd.
func TestFindRepoRootGitFallback(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, ".git"), 0o755))
	nested := filepath.Join(repoRoot, "docs")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok := findRepoRoot(nested)
	require.True(t, ok)
	assert.Equal(t, repoRoot, got)
}

// TestFindRepoRootNotFound verifies the search gives up cleanly when
// neither marker exists.
func TestFindRepoRootNotFound(t *testing.T) {
	_, ok := findRepoRoot(t.TempDir())
	assert.False(t, ok)
}

// TestRunCleanStagesRemovesAndReports verifies the setup-time clean
// path: venv and build artifacts are removed and reported, while the
// bytecode-cache sweep is reserved for the standalone clean command.
func TestRunCleanStagesRemovesAndReports(t *testing.T) {
	repoRoot := t.TempDir()
	for _, dir := range []string{".venv", "bake/build", "bake/azext_bake/__pycache__"} {
		require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, dir), 0o755))
	}

	var buf bytes.Buffer
	rep := report.New(&buf)
	cleaner := &python.Cleaner{RepoRoot: repoRoot, VenvDir: ".venv"}

	require.NoError(t, runCleanStages(cleaner, "bake", rep, false))

	assert.NoDirExists(t, filepath.Join(repoRoot, ".venv"))
	assert.NoDirExists(t, filepath.Join(repoRoot, "bake", "build"))
	// Without caches, __pycache__ survives the setup-time clean.
	assert.DirExists(t, filepath.Join(repoRoot, "bake", "azext_bake", "__pycache__"))

	output := buf.String()
	assert.Contains(t, output, "removed "+filepath.Join(repoRoot, ".venv"))
	assert.Contains(t, output, "removed "+filepath.Join(repoRoot, "bake", "build"))
}

// TestRunCleanStagesWithCaches verifies the remove-only variant also
// sweeps bytecode caches and reports their count.
func TestRunCleanStagesWithCaches(t *testing.T) {
	repoRoot := t.TempDir()
	for _, dir := range []string{"bake/azext_bake/__pycache__", "bake/tests/__pycache__"} {
		require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, dir), 0o755))
	}

	var buf bytes.Buffer
	rep := report.New(&buf)
	cleaner := &python.Cleaner{RepoRoot: repoRoot, VenvDir: ".venv"}

	require.NoError(t, runCleanStages(cleaner, "bake", rep, true))

	assert.NoDirExists(t, filepath.Join(repoRoot, "bake", "azext_bake", "__pycache__"))
	assert.Contains(t, buf.String(), "removed 2 __pycache__ directories")
}

// TestRunCleanStagesIdempotent verifies a second clean reports nothing
// to remove and zero caches, with no error.
func TestRunCleanStagesIdempotent(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, ".venv"), 0o755))
	cleaner := &python.Cleaner{RepoRoot: repoRoot, VenvDir: ".venv"}

	require.NoError(t, runCleanStages(cleaner, "bake", report.New(&bytes.Buffer{}), true))

	var buf bytes.Buffer
	require.NoError(t, runCleanStages(cleaner, "bake", report.New(&buf), true))

	output := buf.String()
	assert.Contains(t, output, "no environment directories to remove")
	assert.Contains(t, output, "no build artifacts to remove")
	assert.Contains(t, output, "removed 0 __pycache__ directories")
}

// fakeLister is an azcli.ExtensionLister test double.
type fakeLister struct {
	names []string
	err   error
}

func (f *fakeLister) ListExtensionNames(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

// TestVerifyRegistration verifies the three outcomes of the verify
// stage: registered, not listed, and lister failure — the latter two
// downgrade to warnings, never failures.
func TestVerifyRegistration(t *testing.T) {
	tests := []struct {
		name       string
		lister     *fakeLister
		wantOK     int
		wantWarn   int
		wantInText string
	}{
		{
			name:       "registered",
			lister:     &fakeLister{names: []string{"devcenter", "bake"}},
			wantOK:     1,
			wantInText: "registered",
		},
		{
			name:       "not listed",
			lister:     &fakeLister{names: []string{"devcenter"}},
			wantWarn:   1,
			wantInText: "not listed",
		},
		{
			name:       "lister fails",
			lister:     &fakeLister{err: errors.New("az not on PATH")},
			wantWarn:   1,
			wantInText: "could not verify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep := report.New(&buf)

			verifyRegistration(context.Background(), tt.lister, rep, "bake")

			ok, warn, fail := rep.Counts()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantWarn, warn)
			assert.Zero(t, fail, "verification must never fail the pipeline")
			assert.Contains(t, buf.String(), tt.wantInText)
		})
	}
}

// TestResolveRepoRootOverride verifies an explicit --repo wins and a
// missing path is rejected with a CLIError.
func TestResolveRepoRootOverride(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveRepoRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveRepoRoot(filepath.Join(dir, "does-not-exist"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}

// TestFirstLine verifies banner trimming.
func TestFirstLine(t *testing.T) {
	assert.Equal(t, "pip 24.0 from somewhere", firstLine("pip 24.0 from somewhere\n(extra noise)\n"))
	assert.Equal(t, "git version 2.43.0", firstLine("git version 2.43.0"))
	assert.Equal(t, "", firstLine("  \n"))
}

// TestPluralY pins the summary suffix helper.
func TestPluralY(t *testing.T) {
	assert.Equal(t, "ies", pluralY(0))
	assert.Equal(t, "y", pluralY(1))
	assert.Equal(t, "ies", pluralY(2))
}

// TestSetupSkipsEverything is an end-to-end scenario: with --skip-venv
// and --skip-azdev on a repository with no .venv present, only the
// prerequisite checks and the verifier run. Creation and installation
// are skipped, so no environment directory appears, and the run
// succeeds even when az is unavailable (the verifier only warns).
//
// Requires a real Python 3 interpreter with pip; skipped otherwise,
// the same way the Git-backed tests in this codebase require git.
func TestSetupSkipsEverything(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	if err := exec.Command("python3", "-m", "pip", "--version").Run(); err != nil {
		t.Skip("pip not available for python3")
	}

	repoRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, "bake"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "bake", "setup.py"), []byte("#"), 0o644))

	flags := &setupFlags{skipVenv: true, skipAzdev: true, repo: repoRoot}
	err := runSetup(context.Background(), flags)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(repoRoot, ".venv"),
		"skipped creation must not materialize an environment")
}
