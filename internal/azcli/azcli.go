package azcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// ExtensionLister reports the names of extensions known to the host CLI.
// The verification stage depends on this narrow capability instead of
// the full CLI so it can be faked in tests.
type ExtensionLister interface {
	ListExtensionNames(ctx context.Context) ([]string, error)
}

// CLI invokes the az command-line tool as a subprocess.
type CLI struct {
	runner shell.Runner

	// command is the az executable name. Overridable for tests.
	command string
}

// New creates a CLI adapter using the given runner.
func New(runner shell.Runner) *CLI {
	return &CLI{runner: runner, command: "az"}
}

// Version returns the installed Azure CLI version string, or an error
// if az is not available. The version is parsed from `az version`
// JSON output; if the output does not parse, the literal "unknown" is
// returned rather than a parse error — the prerequisite check only
// needs to know az exists.
func (c *CLI) Version(ctx context.Context) (string, error) {
	if _, err := c.runner.LookPath(c.command); err != nil {
		return "", fmt.Errorf("az CLI not found on PATH: %w", err)
	}

	output, err := c.runner.Output(ctx, c.command, "version", "--output", "json")
	if err != nil {
		return "", err
	}

	var payload struct {
		AzureCLI string `json:"azure-cli"`
	}
	if err := json.Unmarshal(jsonc.ToJSON([]byte(output)), &payload); err != nil || payload.AzureCLI == "" {
		return "unknown", nil
	}
	return payload.AzureCLI, nil
}

// ListExtensionNames returns the names of all extensions az knows
// about, including development-mode extensions registered by azdev.
func (c *CLI) ListExtensionNames(ctx context.Context) ([]string, error) {
	if _, err := c.runner.LookPath(c.command); err != nil {
		return nil, fmt.Errorf("az CLI not found on PATH: %w", err)
	}

	output, err := c.runner.Output(ctx, c.command, "extension", "list", "--output", "json")
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(jsonc.ToJSON([]byte(output)), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse az extension list output: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}
	return names, nil
}

// ExtensionRegistered reports whether an extension with the given name
// appears in the lister's output. Matching is case-insensitive because
// az lowercases extension names inconsistently across versions.
func ExtensionRegistered(ctx context.Context, lister ExtensionLister, name string) (bool, error) {
	names, err := lister.ListExtensionNames(ctx)
	if err != nil {
		return false, err
	}
	for _, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return true, nil
		}
	}
	return false, nil
}
