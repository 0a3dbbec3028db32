package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional override file looked up at the repository root.
const FileName = ".devsetup.yaml"

// Config holds the tunable values of the provisioning pipeline.
// Zero values in the YAML file mean "keep the default" — Load merges the
// file over Default() field by field.
type Config struct {
	// VenvDir is the virtual environment directory name, relative to the
	// repository root. Cleanup matches this name plus any suffix, so
	// variant directories like ".venv-py311" are removed too.
	VenvDir string `yaml:"venvDir"`

	// Extension is the extension name passed to `azdev setup -e` and
	// searched for in `az extension list` output.
	Extension string `yaml:"extension"`

	// SourceDir is the extension source subtree (relative to the
	// repository root) swept for build/dist/egg-info artifacts.
	SourceDir string `yaml:"sourceDir"`

	// PinnedDeps are exact-version installs applied after azdev. These
	// are known compatibility fixes, not floating constraints; a failed
	// install is tolerated with a warning.
	PinnedDeps []string `yaml:"pinnedDeps"`

	// ExtraDeps are additional runtime dependencies the extension needs
	// during development, installed with the same tolerant policy.
	ExtraDeps []string `yaml:"extraDeps"`
}

// Default returns the built-in configuration for the az-bake repository.
func Default() *Config {
	return &Config{
		VenvDir:   ".venv",
		Extension: "bake",
		SourceDir: "bake",
		// packaging 21.3 is the last release compatible with the azdev
		// toolchain's setuptools invocation; newer releases break
		// `azdev setup` on editable installs.
		PinnedDeps: []string{"packaging==21.3"},
		ExtraDeps:  []string{"pyyaml"},
	}
}

// Load returns the configuration for the given repository root.
// A missing .devsetup.yaml is not an error — the defaults are returned
// unchanged. A present but malformed file is an error, since silently
// ignoring a typo'd override would be worse than failing fast.
func Load(repoRoot string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(repoRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var overrides Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	cfg.merge(&overrides)
	return cfg, nil
}

// merge copies non-zero fields from overrides onto the receiver.
// Slices replace wholesale rather than appending, so an override can
// drop a default pin entirely.
func (c *Config) merge(overrides *Config) {
	if overrides.VenvDir != "" {
		c.VenvDir = overrides.VenvDir
	}
	if overrides.Extension != "" {
		c.Extension = overrides.Extension
	}
	if overrides.SourceDir != "" {
		c.SourceDir = overrides.SourceDir
	}
	if overrides.PinnedDeps != nil {
		c.PinnedDeps = overrides.PinnedDeps
	}
	if overrides.ExtraDeps != nil {
		c.ExtraDeps = overrides.ExtraDeps
	}
}
