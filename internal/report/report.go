package report

import (
	"fmt"
	"io"

	"github.com/colbylwilliams/az-bake-dev/internal/model"
)

// Reporter collects StageResults in execution order and prints each one
// as it is recorded. Results are appended, never mutated retroactively.
type Reporter struct {
	out     io.Writer
	results []model.StageResult
}

// New creates a Reporter writing stage lines to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// OK records and prints a successful stage result.
func (r *Reporter) OK(stage, format string, args ...interface{}) {
	r.record(stage, model.OutcomeOK, format, args...)
}

// Warn records and prints a warning-level stage result. The pipeline
// continues after a warning.
func (r *Reporter) Warn(stage, format string, args ...interface{}) {
	r.record(stage, model.OutcomeWarn, format, args...)
}

// Fail records and prints a fatal stage result. The caller is expected
// to stop the pipeline afterwards; recording it here ensures the failure
// also shows up in the summary path.
func (r *Reporter) Fail(stage, format string, args ...interface{}) {
	r.record(stage, model.OutcomeFail, format, args...)
}

func (r *Reporter) record(stage string, outcome model.Outcome, format string, args ...interface{}) {
	result := model.StageResult{
		Stage:   stage,
		Outcome: outcome,
		Message: fmt.Sprintf(format, args...),
	}
	r.results = append(r.results, result)
	fmt.Fprintln(r.out, result.String())
}

// Results returns the recorded stage results in execution order.
func (r *Reporter) Results() []model.StageResult {
	return r.results
}

// Counts returns how many results were recorded per outcome.
func (r *Reporter) Counts() (ok, warn, fail int) {
	for _, result := range r.results {
		switch result.Outcome {
		case model.OutcomeOK:
			ok++
		case model.OutcomeWarn:
			warn++
		case model.OutcomeFail:
			fail++
		}
	}
	return ok, warn, fail
}

// HasWarnings reports whether any stage recorded a warning.
func (r *Reporter) HasWarnings() bool {
	_, warn, _ := r.Counts()
	return warn > 0
}

// Summary prints the closing status block. On a run with warnings it
// repeats the warning lines so they are not lost above a wall of
// install output.
func (r *Reporter) Summary() {
	ok, warn, fail := r.Counts()

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d stage(s) ok, %d warning(s), %d failure(s)\n", ok, warn, fail)

	if warn > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Warnings:")
		for _, result := range r.results {
			if result.Outcome == model.OutcomeWarn {
				fmt.Fprintf(r.out, "  %s: %s\n", result.Stage, result.Message)
			}
		}
	}
}

// NextSteps prints the follow-up commands after a successful setup:
// how to activate the environment and the azdev commands used during
// extension development.
func (r *Reporter) NextSteps(paths model.ToolPaths, extension string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Setup complete. Next steps:")
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  activate the environment:  %s\n", paths.ActivateCommand)
	fmt.Fprintf(r.out, "  check code style:          azdev style %s\n", extension)
	fmt.Fprintf(r.out, "  run the linter:            azdev linter %s\n", extension)
	fmt.Fprintf(r.out, "  run the tests:             azdev test %s\n", extension)
	fmt.Fprintf(r.out, "  try the extension:         az %s -h\n", extension)
	fmt.Fprintln(r.out)
}
