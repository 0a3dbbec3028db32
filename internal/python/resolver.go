package python

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
	"github.com/colbylwilliams/az-bake-dev/internal/shell"
)

// DefaultCandidates returns the ordered interpreter commands probed when
// no override is given. The order is fixed so resolution is deterministic:
// given the same PATH, the same candidate always wins.
//
// The "py" launcher is only meaningful on Windows, where python3/python
// may be absent or shimmed to the Microsoft Store stub.
func DefaultCandidates() []string {
	candidates := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, "py")
	}
	return candidates
}

// Resolve determines which command invokes a Python 3 interpreter.
//
// When override is non-empty it is authoritative: it must resolve on
// PATH or the whole run fails — there is no fallback to auto-detection,
// because silently substituting a different interpreter for an explicit
// choice would be worse than failing.
//
// Otherwise candidates are probed in order and the first one whose
// reported version has major version 3 is returned.
func Resolve(ctx context.Context, r shell.Runner, override string, candidates []string) (string, error) {
	if override != "" {
		if _, err := r.LookPath(override); err != nil {
			return "", model.WrapCLIError(model.ExitPythonNotFound,
				fmt.Sprintf("specified interpreter %q not found on PATH", override), err)
		}
		return override, nil
	}

	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}

	for _, candidate := range candidates {
		if _, err := r.LookPath(candidate); err != nil {
			continue
		}
		version, err := Version(ctx, r, candidate)
		if err != nil {
			continue
		}
		major, ok := majorVersion(version)
		if ok && major == 3 {
			return candidate, nil
		}
	}

	return "", model.NewCLIError(model.ExitPythonNotFound,
		"no Python 3 interpreter found; install Python 3.8 or later and ensure it is on PATH")
}

// Version returns the raw version string reported by the interpreter,
// e.g. "Python 3.10.4".
//
// Older interpreters printed the version banner to stderr; any modern
// Python 3 prints to stdout, which is all the resolver accepts.
func Version(ctx context.Context, r shell.Runner, command string) (string, error) {
	output, err := r.Output(ctx, command, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// majorVersion extracts the major version number from a "Python X.Y.Z"
// banner. The second return value is false when the banner does not
// parse — callers treat that candidate as unsuitable rather than
// propagating a parse error.
func majorVersion(banner string) (int, bool) {
	fields := strings.Fields(banner)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return 0, false
	}

	number, _, _ := strings.Cut(fields[1], ".")
	major, err := strconv.Atoi(number)
	if err != nil {
		return 0, false
	}
	return major, true
}
