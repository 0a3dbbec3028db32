package python

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cleaner removes prior provisioning state from a repository. Every
// operation tolerates its target not existing, so running the cleaner
// repeatedly is safe: the second run reports zero items removed instead
// of erroring.
type Cleaner struct {
	// RepoRoot is the repository being cleaned.
	RepoRoot string

	// VenvDir is the environment directory name. Removal matches this
	// name plus any suffix (".venv", ".venv-old", ".venv311", ...) so
	// variant and backup environments are swept too.
	VenvDir string

	// ActiveVenv carries the ambient VIRTUAL_ENV value at process start,
	// if any. It is passed in explicitly rather than read from the
	// process environment so deactivation handling is a pure function of
	// input state.
	ActiveVenv string
}

// Deactivate handles an environment that was active when the cleaner
// started. A subprocess cannot change its parent shell, so this clears
// the variable for the provisioner's own children and returns a note for
// the operator. Best-effort: a stale active-environment marker must
// never block cleanup, so there is no error path here.
func (c *Cleaner) Deactivate() (string, bool) {
	if c.ActiveVenv == "" {
		return "", false
	}

	_ = os.Unsetenv("VIRTUAL_ENV")
	return fmt.Sprintf("environment %s is active in your shell; run `deactivate` before re-activating", c.ActiveVenv), true
}

// RemoveVenvs removes every directory at the repository root whose name
// starts with the environment directory name. It returns the paths that
// were removed; an empty slice means there was nothing to clean, which
// is success, not an error.
func (c *Cleaner) RemoveVenvs() ([]string, error) {
	entries, err := os.ReadDir(c.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository root %s: %w", c.RepoRoot, err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), c.VenvDir) {
			continue
		}
		path := filepath.Join(c.RepoRoot, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// RemoveBuildArtifacts removes build/, dist/, and *.egg-info directories
// under the extension source subtree. These are left behind by editable
// installs and stale wheels confuse azdev's import checks.
func (c *Cleaner) RemoveBuildArtifacts(sourceDir string) ([]string, error) {
	root := filepath.Join(c.RepoRoot, sourceDir)
	return removeMatchingDirs(root, func(name string) bool {
		return name == "build" || name == "dist" || strings.HasSuffix(name, ".egg-info")
	})
}

// RemoveBytecodeCaches removes every __pycache__ directory anywhere
// under the repository root and returns how many were removed. This is
// the extra step of the remove-only variant; the setup path leaves
// caches alone since a fresh install overwrites them anyway.
func (c *Cleaner) RemoveBytecodeCaches() (int, error) {
	removed, err := removeMatchingDirs(c.RepoRoot, func(name string) bool {
		return name == "__pycache__"
	})
	return len(removed), err
}

// removeMatchingDirs walks root and removes every directory whose base
// name satisfies match, skipping descent into removed trees. A missing
// root is a no-op.
func removeMatchingDirs(root string, match func(name string) bool) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var removed []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The entry may have been removed as part of a parent we
			// already deleted; treat traversal errors on removed paths
			// as skippable.
			if _, statErr := os.Stat(path); statErr != nil {
				return nil
			}
			return err
		}
		if !d.IsDir() || !match(d.Name()) {
			return nil
		}
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return fmt.Errorf("failed to remove %s: %w", path, removeErr)
		}
		removed = append(removed, path)
		// Do not descend into a tree that no longer exists.
		return filepath.SkipDir
	})
	return removed, err
}
