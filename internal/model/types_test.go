package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOutcomeIsValid verifies that only the three defined severities
// are accepted as valid outcomes.
func TestOutcomeIsValid(t *testing.T) {
	assert.True(t, OutcomeOK.IsValid())
	assert.True(t, OutcomeWarn.IsValid())
	assert.True(t, OutcomeFail.IsValid())
	assert.False(t, Outcome("success").IsValid())
	assert.False(t, Outcome("").IsValid())
}

// TestParseOutcome verifies string-to-Outcome conversion, including
// case-insensitivity and rejection of unknown values.
func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Outcome
		wantErr bool
	}{
		{name: "ok lowercase", input: "ok", want: OutcomeOK},
		{name: "warn uppercase", input: "WARN", want: OutcomeWarn},
		{name: "fail mixed case", input: "Fail", want: OutcomeFail},
		{name: "unknown value", input: "fatal", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutcome(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestStageResultString verifies the fixed-width badge formatting used
// for aligned terminal output.
func TestStageResultString(t *testing.T) {
	ok := StageResult{Stage: "python", Outcome: OutcomeOK, Message: "python3 (Python 3.10.4)"}
	assert.Equal(t, "[ OK ] python: python3 (Python 3.10.4)", ok.String())

	warn := StageResult{Stage: "az", Outcome: OutcomeWarn, Message: "not detected"}
	assert.Equal(t, "[WARN] az: not detected", warn.String())

	fail := StageResult{Stage: "venv", Outcome: OutcomeFail, Message: "creation failed"}
	assert.Equal(t, "[FAIL] venv: creation failed", fail.String())
}

// TestCLIErrorMessage verifies error formatting with and without an
// underlying error.
func TestCLIErrorMessage(t *testing.T) {
	plain := NewCLIError(ExitPythonNotFound, "no interpreter found")
	assert.Equal(t, "no interpreter found", plain.Error())

	underlying := errors.New("exec: not found")
	wrapped := WrapCLIError(ExitPipNotFound, "pip unavailable", underlying)
	assert.Equal(t, "pip unavailable: exec: not found", wrapped.Error())
}

// TestCLIErrorUnwrap verifies that errors.Is can see through a CLIError
// to the underlying cause.
func TestCLIErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	wrapped := WrapCLIError(ExitGeneralError, "outer", underlying)

	assert.True(t, errors.Is(wrapped, underlying), "errors.Is should reach the wrapped error")
	assert.Nil(t, NewCLIError(ExitSuccess, "no cause").Unwrap())
}

// TestExitCodeValues pins the exit code numbering — scripts and CI
// depend on these staying stable.
func TestExitCodeValues(t *testing.T) {
	assert.Equal(t, ExitCode(0), ExitSuccess)
	assert.Equal(t, ExitCode(1), ExitGeneralError)
	assert.Equal(t, ExitCode(2), ExitPythonNotFound)
	assert.Equal(t, ExitCode(3), ExitPipNotFound)
	assert.Equal(t, ExitCode(4), ExitVenvCreateFailed)
	assert.Equal(t, ExitCode(5), ExitInstallFailed)
	assert.Equal(t, ExitCode(6), ExitRegistrationFailed)
}
