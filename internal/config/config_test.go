package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a .devsetup.yaml into dir for a test fixture.
func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

// TestLoadMissingFileUsesDefaults verifies a repository without
// .devsetup.yaml gets the built-in defaults.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, "bake", cfg.Extension)
	assert.Equal(t, "bake", cfg.SourceDir)
	assert.Equal(t, []string{"packaging==21.3"}, cfg.PinnedDeps)
	assert.Equal(t, []string{"pyyaml"}, cfg.ExtraDeps)
}

// TestLoadPartialOverride verifies set fields override defaults while
// unset fields keep them.
func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "venvDir: .venv311\npinnedDeps:\n  - packaging==23.2\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ".venv311", cfg.VenvDir)
	assert.Equal(t, []string{"packaging==23.2"}, cfg.PinnedDeps)
	// Untouched fields keep their defaults.
	assert.Equal(t, "bake", cfg.Extension)
	assert.Equal(t, []string{"pyyaml"}, cfg.ExtraDeps)
}

// TestLoadEmptyListOverride verifies an explicitly empty list drops the
// default entries entirely (replace semantics, not append).
func TestLoadEmptyListOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "extraDeps: []\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.ExtraDeps)
	assert.Equal(t, []string{"packaging==21.3"}, cfg.PinnedDeps)
}

// TestLoadMalformed verifies a present but broken file is an error —
// a typo'd override must not be silently ignored.
func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "venvDir: [this is\nnot: valid: yaml\n")

	_, err := Load(dir)
	assert.Error(t, err)
}
