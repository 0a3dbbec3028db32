// Package report accumulates per-stage results and renders the final
// human-readable summary of a provisioning run.
//
// Stage lines are printed as they happen so a long install still gives
// feedback, and the accumulated sequence is replayed in the closing
// summary together with the follow-up commands an operator needs next.
// The reporter itself has no failure mode — it only formats.
package report
