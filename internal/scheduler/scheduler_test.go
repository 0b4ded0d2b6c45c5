// SPDX-License-Identifier: MPL-2.0

package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"matrixrun/internal/executor"
	"matrixrun/internal/sandbox"
	"matrixrun/internal/scheduler"
	"matrixrun/pkg/matrixfile"
)

// fakeProvisioner returns canned sandboxes or errors keyed by env name.
type fakeProvisioner struct {
	mu   sync.Mutex
	errs map[string]error
	seen []string
}

func (p *fakeProvisioner) Provision(_ context.Context, spec *matrixfile.EnvironmentSpec) (*sandbox.Sandbox, error) {
	p.mu.Lock()
	p.seen = append(p.seen, spec.Name)
	p.mu.Unlock()
	if err := p.errs[spec.Name]; err != nil {
		return nil, err
	}
	return &sandbox.Sandbox{Name: spec.Name}, nil
}

// fakeRunner seals a fixed outcome per env name, defaulting to Passed.
type fakeRunner struct {
	mu       sync.Mutex
	outcomes map[string]executor.Outcome
	ran      []string
}

func (r *fakeRunner) Run(_ context.Context, spec *matrixfile.EnvironmentSpec, _ *sandbox.Sandbox) *executor.EnvironmentResult {
	r.mu.Lock()
	r.ran = append(r.ran, spec.Name)
	r.mu.Unlock()
	outcome := executor.OutcomePassed
	if o, ok := r.outcomes[spec.Name]; ok {
		outcome = o
	}
	return &executor.EnvironmentResult{Name: spec.Name, Outcome: outcome}
}

func matrixWithEnvs(t *testing.T, names ...string) *matrixfile.Matrixfile {
	t.Helper()
	doc := "envs: ["
	for _, name := range names {
		doc += fmt.Sprintf(`{name: %q, commands: ["true"]},`, name)
	}
	doc += "]"
	m, err := matrixfile.ParseBytes([]byte(doc), "matrixfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() unexpected error: %v", err)
	}
	return m
}

func specsOf(m *matrixfile.Matrixfile) []*matrixfile.EnvironmentSpec {
	specs := make([]*matrixfile.EnvironmentSpec, len(m.Envs))
	for i := range m.Envs {
		specs[i] = &m.Envs[i]
	}
	return specs
}

// TestRun_ResultsInSelectionOrder verifies that results line up with the
// input specs regardless of worker completion order.
func TestRun_ResultsInSelectionOrder(t *testing.T) {
	t.Parallel()

	names := []string{"py311", "py312", "lint", "docs", "fmt"}
	specs := specsOf(matrixWithEnvs(t, names...))

	s := &scheduler.Scheduler{
		Provisioner: &fakeProvisioner{},
		Runner:      &fakeRunner{},
		Concurrency: 4,
	}
	results := s.Run(context.Background(), specs)
	if len(results) != len(names) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(names))
	}
	for i, name := range names {
		if results[i].Name != name {
			t.Errorf("results[%d].Name = %q, want %q", i, results[i].Name, name)
		}
	}
}

// TestRun_FailureIsContained verifies one environment's provisioning
// failure never prevents the others from running.
func TestRun_FailureIsContained(t *testing.T) {
	t.Parallel()

	specs := specsOf(matrixWithEnvs(t, "bad", "good"))
	prov := &fakeProvisioner{errs: map[string]error{
		"bad": &sandbox.InstallError{Env: "bad", Err: errors.New("pip exploded")},
	}}
	runner := &fakeRunner{}

	s := &scheduler.Scheduler{Provisioner: prov, Runner: runner}
	results := s.Run(context.Background(), specs)

	if results[0].Outcome != executor.OutcomeErrored {
		t.Errorf("bad: Outcome = %v, want %v", results[0].Outcome, executor.OutcomeErrored)
	}
	if results[0].Reason != executor.ReasonInstallFailed {
		t.Errorf("bad: Reason = %v, want %v", results[0].Reason, executor.ReasonInstallFailed)
	}
	if results[1].Outcome != executor.OutcomePassed {
		t.Errorf("good: Outcome = %v, want %v", results[1].Outcome, executor.OutcomePassed)
	}
	if len(runner.ran) != 1 || runner.ran[0] != "good" {
		t.Errorf("runner ran %v, want only [good]", runner.ran)
	}
}

// TestRun_MissingRuntimeMapping verifies the skip flag decides between
// Skipped and Errored when a runtime cannot be resolved.
func TestRun_MissingRuntimeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		skipMissing bool
		wantOutcome executor.Outcome
	}{
		{name: "skip allowed", skipMissing: true, wantOutcome: executor.OutcomeSkipped},
		{name: "skip not allowed", skipMissing: false, wantOutcome: executor.OutcomeErrored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			specs := specsOf(matrixWithEnvs(t, "py399"))
			prov := &fakeProvisioner{errs: map[string]error{
				"py399": &sandbox.RuntimeNotFoundError{Env: "py399", Selector: "python3.99"},
			}}
			s := &scheduler.Scheduler{
				Provisioner: prov,
				Runner:      &fakeRunner{},
				SkipMissing: tt.skipMissing,
			}
			results := s.Run(context.Background(), specs)
			if results[0].Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", results[0].Outcome, tt.wantOutcome)
			}
			if results[0].Reason != executor.ReasonRuntimeMissing {
				t.Errorf("Reason = %v, want %v", results[0].Reason, executor.ReasonRuntimeMissing)
			}
		})
	}
}

// TestRun_EnvLevelSkipOverride verifies a per-environment skip_missing
// beats the file-level flag in both directions.
func TestRun_EnvLevelSkipOverride(t *testing.T) {
	t.Parallel()

	doc := `
skip_missing: true
envs: [
	{name: "strict", skip_missing: false, commands: ["true"]},
	{name: "lenient", commands: ["true"]},
]`
	m, err := matrixfile.ParseBytes([]byte(doc), "matrixfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() unexpected error: %v", err)
	}
	specs := specsOf(m)

	notFound := &sandbox.RuntimeNotFoundError{Selector: "python3.99"}
	prov := &fakeProvisioner{errs: map[string]error{"strict": notFound, "lenient": notFound}}

	s := &scheduler.Scheduler{Provisioner: prov, Runner: &fakeRunner{}, SkipMissing: m.SkipMissing}
	results := s.Run(context.Background(), specs)

	if results[0].Outcome != executor.OutcomeErrored {
		t.Errorf("strict: Outcome = %v, want %v", results[0].Outcome, executor.OutcomeErrored)
	}
	if results[1].Outcome != executor.OutcomeSkipped {
		t.Errorf("lenient: Outcome = %v, want %v", results[1].Outcome, executor.OutcomeSkipped)
	}
}

// TestRun_CanceledContext verifies a pre-canceled context yields
// interrupted results without invoking the runner.
func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	specs := specsOf(matrixWithEnvs(t, "a", "b"))
	runner := &fakeRunner{}
	s := &scheduler.Scheduler{Provisioner: &fakeProvisioner{}, Runner: runner}
	results := s.Run(ctx, specs)

	for i, res := range results {
		if res.Outcome != executor.OutcomeErrored {
			t.Errorf("results[%d].Outcome = %v, want %v", i, res.Outcome, executor.OutcomeErrored)
		}
		if res.Reason != executor.ReasonInterrupted {
			t.Errorf("results[%d].Reason = %v, want %v", i, res.Reason, executor.ReasonInterrupted)
		}
	}
	if len(runner.ran) != 0 {
		t.Errorf("runner ran %v, want nothing", runner.ran)
	}
}

// TestRun_ConcurrencyEquivalence verifies outcomes are identical whether
// the matrix runs sequentially or with a worker pool.
func TestRun_ConcurrencyEquivalence(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d", "e", "f"}
	outcomes := map[string]executor.Outcome{"c": executor.OutcomeFailed, "e": executor.OutcomeFailed}

	runAt := func(concurrency int) []*executor.EnvironmentResult {
		specs := specsOf(matrixWithEnvs(t, names...))
		s := &scheduler.Scheduler{
			Provisioner: &fakeProvisioner{},
			Runner:      &fakeRunner{outcomes: outcomes},
			Concurrency: concurrency,
		}
		return s.Run(context.Background(), specs)
	}

	sequential := runAt(1)
	parallel := runAt(4)
	for i := range names {
		if sequential[i].Name != parallel[i].Name || sequential[i].Outcome != parallel[i].Outcome {
			t.Errorf("results[%d]: sequential %s/%v vs parallel %s/%v",
				i, sequential[i].Name, sequential[i].Outcome, parallel[i].Name, parallel[i].Outcome)
		}
	}
}
