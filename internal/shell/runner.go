package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/briandowns/spinner"
)

// Runner abstracts subprocess execution so pipeline stages depend on a
// narrow, mockable capability instead of os/exec directly.
//
// All methods block until the subprocess exits. A nil error means the
// process exited with status 0.
type Runner interface {
	// Run executes a command with stdout/stderr attached to the current
	// process, making the tool's own output visible to the operator.
	Run(ctx context.Context, name string, args ...string) error

	// RunQuiet executes a command with captured output, showing only a
	// progress message while it runs. On failure the captured output is
	// included in the returned error so diagnostics are not lost.
	RunQuiet(ctx context.Context, message string, name string, args ...string) error

	// Output executes a command and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// LookPath reports the full path of an executable on PATH, or an
	// error if it cannot be found.
	LookPath(name string) (string, error)
}

// ExecRunner is the os/exec-backed Runner used outside of tests.
type ExecRunner struct {
	// Verbose disables output capture: RunQuiet behaves like Run so the
	// operator sees every line the underlying tool prints.
	Verbose bool

	// NoSpinner disables the progress spinner (useful for CI logs where
	// control characters are unwelcome). Output is still captured.
	NoSpinner bool
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(verbose bool) *ExecRunner {
	return &ExecRunner{Verbose: verbose}
}

// Run executes the command with inherited stdout/stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	// #nosec G204 — argv is constructed internally, not from user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// RunQuiet executes the command with captured output behind a spinner.
// In verbose mode it falls through to Run so nothing is hidden.
func (r *ExecRunner) RunQuiet(ctx context.Context, message string, name string, args ...string) error {
	if r.Verbose {
		fmt.Fprintf(os.Stderr, "[verbose] %s\n", message)
		return r.Run(ctx, name, args...)
	}

	if !r.NoSpinner {
		spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithColor("green"))
		spin.Suffix = " " + message
		spin.Start()
		defer spin.Stop()
	}

	// #nosec G204 — argv is constructed internally, not from user input
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w%s", name, strings.Join(args, " "), err, outputTail(output))
	}
	return nil
}

// Output executes the command and returns trimmed stdout. Stderr is
// captured separately and folded into the error on failure.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 — argv is constructed internally, not from user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// LookPath resolves an executable name against PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// maxTailLines limits how much captured output is replayed into error
// messages from quiet runs. Installers can be very chatty; the last few
// lines almost always contain the actual failure reason.
const maxTailLines = 15

// outputTail formats the last lines of captured output for inclusion in
// an error message. Returns "" when there is no output.
func outputTail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > maxTailLines {
		lines = lines[len(lines)-maxTailLines:]
	}
	return "\n" + strings.Join(lines, "\n")
}
