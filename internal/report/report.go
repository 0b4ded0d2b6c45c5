// SPDX-License-Identifier: MPL-2.0

// Package report aggregates per-environment outcomes into the run
// report and renders the final summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"matrixrun/internal/executor"
)

// Process exit codes. The process exit code is the sole
// machine-readable success signal of a run.
const (
	// ExitOK means every selected environment passed or was skipped.
	ExitOK = 0
	// ExitFailed means at least one environment failed or errored.
	ExitFailed = 1
	// ExitConfig means a configuration or selection error preceded any
	// execution.
	ExitConfig = 2
)

// RunReport maps environment names to their sealed results and derives
// the overall process exit code. Created once per invocation, immutable
// after the run completes.
type RunReport struct {
	results []*executor.EnvironmentResult
	byName  map[string]*executor.EnvironmentResult
}

// Aggregate builds a RunReport from sealed results in selection order.
func Aggregate(results []*executor.EnvironmentResult) *RunReport {
	byName := make(map[string]*executor.EnvironmentResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	return &RunReport{results: results, byName: byName}
}

// Results returns the sealed results in selection order.
func (r *RunReport) Results() []*executor.EnvironmentResult {
	return r.results
}

// Lookup returns the result for an environment name.
func (r *RunReport) Lookup(name string) (*executor.EnvironmentResult, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// ExitCode derives the overall process exit code: ExitOK iff every
// environment's outcome is Passed or Skipped, otherwise ExitFailed.
func (r *RunReport) ExitCode() int {
	for _, res := range r.results {
		if !res.Outcome.Success() {
			return ExitFailed
		}
	}
	return ExitOK
}

// Render writes the final summary: one status line per environment plus
// failure detail for non-passing environments. Every selected
// environment always gets an entry with an unambiguous outcome.
func (r *RunReport) Render(w io.Writer) {
	var passed, failed, skipped, errored int

	for _, res := range r.results {
		fmt.Fprintln(w, statusLine(res))
		switch res.Outcome {
		case executor.OutcomePassed:
			passed++
		case executor.OutcomeFailed:
			failed++
			renderFailureDetail(w, res)
		case executor.OutcomeSkipped:
			skipped++
		case executor.OutcomeErrored:
			errored++
			renderErrorDetail(w, res)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d skipped, %d errored\n",
		passed, failed, skipped, errored)
}

// statusLine formats the one-line status entry for an environment.
func statusLine(res *executor.EnvironmentResult) string {
	var marker, label string
	switch res.Outcome {
	case executor.OutcomePassed:
		marker = PassStyle.Render("✓")
		label = "passed"
	case executor.OutcomeFailed:
		marker = FailStyle.Render("✗")
		label = "failed"
	case executor.OutcomeSkipped:
		marker = SkipStyle.Render("-")
		label = "skipped (" + string(res.Reason) + ")"
	case executor.OutcomeErrored:
		marker = FailStyle.Render("!")
		label = "errored (" + string(res.Reason) + ")"
	}

	line := fmt.Sprintf("%s %s: %s", marker, res.Name, label)
	if res.Duration > 0 {
		line += " " + MutedStyle.Render(fmt.Sprintf("(%s)", res.Duration.Round(time.Millisecond)))
	}
	return line
}

// renderFailureDetail prints the failing command and its stderr tail.
func renderFailureDetail(w io.Writer, res *executor.EnvironmentResult) {
	cmd := res.FailedCommand()
	if cmd == nil {
		return
	}
	fmt.Fprintf(w, "  %s exited %s\n", CmdStyle.Render(RenderArgv(cmd.Argv)), cmd.ExitCode)
	writeIndentedTail(w, cmd.StderrTail)
}

// renderErrorDetail prints the underlying error for an errored
// environment, plus any output of the command that broke off.
func renderErrorDetail(w io.Writer, res *executor.EnvironmentResult) {
	if res.Err != nil {
		fmt.Fprintf(w, "  %s\n", res.Err)
	}
	if len(res.Commands) > 0 {
		last := res.Commands[len(res.Commands)-1]
		writeIndentedTail(w, last.StderrTail)
	}
}

// writeIndentedTail writes a captured output tail indented under the
// status line, dropping a trailing blank line.
func writeIndentedTail(w io.Writer, tail string) {
	tail = strings.TrimRight(tail, "\n")
	if tail == "" {
		return
	}
	for _, line := range strings.Split(tail, "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

// RenderArgv joins an argv back into a shell-safe command line,
// quoting tokens that need it.
func RenderArgv(argv []string) string {
	quoted := make([]string, len(argv))
	for i, tok := range argv {
		q, err := syntax.Quote(tok, syntax.LangPOSIX)
		if err != nil {
			q = tok
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
