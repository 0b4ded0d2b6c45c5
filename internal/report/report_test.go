// SPDX-License-Identifier: MPL-2.0

package report_test

import (
	"strings"
	"testing"

	"matrixrun/internal/executor"
	"matrixrun/internal/report"
)

func result(name string, outcome executor.Outcome) *executor.EnvironmentResult {
	return &executor.EnvironmentResult{Name: name, Outcome: outcome}
}

// TestExitCode verifies the exit code derivation: zero iff every
// environment passed or was skipped.
func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []*executor.EnvironmentResult
		want    int
	}{
		{
			name: "all passed",
			results: []*executor.EnvironmentResult{
				result("py311", executor.OutcomePassed),
				result("py312", executor.OutcomePassed),
			},
			want: report.ExitOK,
		},
		{
			name: "passed and skipped",
			results: []*executor.EnvironmentResult{
				result("py311", executor.OutcomePassed),
				result("py399", executor.OutcomeSkipped),
			},
			want: report.ExitOK,
		},
		{
			name: "one failed among passed",
			results: []*executor.EnvironmentResult{
				result("py311", executor.OutcomePassed),
				result("lint", executor.OutcomeFailed),
			},
			want: report.ExitFailed,
		},
		{
			name: "errored counts as failure",
			results: []*executor.EnvironmentResult{
				result("py311", executor.OutcomeErrored),
			},
			want: report.ExitFailed,
		},
		{
			name:    "empty run",
			results: nil,
			want:    report.ExitOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := report.Aggregate(tt.results)
			if got := r.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestRender verifies every environment gets a status line and the
// summary counts line up.
func TestRender(t *testing.T) {
	t.Parallel()

	failed := result("lint", executor.OutcomeFailed)
	failed.Commands = []executor.CommandResult{{
		Argv:       []string{"ruff", "check", "src dir"},
		ExitCode:   1,
		StderrTail: "E501 line too long\n",
	}}
	skipped := executor.NewSkippedResult("py399", executor.ReasonRuntimeMissing)

	r := report.Aggregate([]*executor.EnvironmentResult{
		result("py311", executor.OutcomePassed),
		failed,
		skipped,
	})

	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()

	for _, want := range []string{
		"py311: passed",
		"lint: failed",
		"py399: skipped (runtime missing)",
		"exited 1",
		"E501 line too long",
		"1 passed, 1 failed, 1 skipped, 0 errored",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
}

// TestRender_ErroredDetail verifies errored environments surface the
// underlying error message.
func TestRender_ErroredDetail(t *testing.T) {
	t.Parallel()

	errored := executor.NewErroredResult("py311", executor.ReasonLaunchFailed,
		&executor.ExecutableNotFoundError{Name: "pytest"})

	r := report.Aggregate([]*executor.EnvironmentResult{errored})
	var buf strings.Builder
	r.Render(&buf)
	out := buf.String()

	if !strings.Contains(out, "py311: errored (launch failed)") {
		t.Errorf("Render() output missing errored status line:\n%s", out)
	}
	if !strings.Contains(out, `executable "pytest" not found`) {
		t.Errorf("Render() output missing error detail:\n%s", out)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	r := report.Aggregate([]*executor.EnvironmentResult{result("py311", executor.OutcomePassed)})
	if res, ok := r.Lookup("py311"); !ok || res.Name != "py311" {
		t.Errorf("Lookup(py311) = %v, %v; want result, true", res, ok)
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Error("Lookup(nope) = _, true; want false")
	}
}

func TestRenderArgv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
		want string
	}{
		{name: "plain tokens", argv: []string{"pytest", "-q"}, want: "pytest -q"},
		{name: "token with space", argv: []string{"echo", "two words"}, want: `echo 'two words'`},
		{name: "empty token", argv: []string{"echo", ""}, want: "echo ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := report.RenderArgv(tt.argv); got != tt.want {
				t.Errorf("RenderArgv(%v) = %q, want %q", tt.argv, got, tt.want)
			}
		})
	}
}
