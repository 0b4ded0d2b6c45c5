// SPDX-License-Identifier: MPL-2.0

package executor

import "time"

const (
	// OutcomePassed means every command in the sequence exited zero.
	OutcomePassed Outcome = "passed"
	// OutcomeFailed means a command ran but exited nonzero.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the environment's runtime was missing and
	// skipping was allowed.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeErrored means the environment could not run to a verdict:
	// provisioning failed, a command could not be launched, the run was
	// interrupted, or a deadline expired.
	OutcomeErrored Outcome = "errored"
)

const (
	// ReasonNone is the zero Reason for passed and failed outcomes.
	ReasonNone Reason = ""
	// ReasonRuntimeMissing records an unresolvable runtime selector.
	ReasonRuntimeMissing Reason = "runtime missing"
	// ReasonInstallFailed records a nonzero dependency installer exit.
	ReasonInstallFailed Reason = "install failed"
	// ReasonProvisionFailed records any other sandbox provisioning
	// failure.
	ReasonProvisionFailed Reason = "provision failed"
	// ReasonLaunchFailed records a command that could not be started.
	ReasonLaunchFailed Reason = "launch failed"
	// ReasonInterrupted records an external cancellation.
	ReasonInterrupted Reason = "interrupted"
	// ReasonTimeout records a per-command deadline expiry.
	ReasonTimeout Reason = "timeout"
)

type (
	// Outcome is the terminal classification of an environment's run.
	Outcome string

	// Reason qualifies skipped and errored outcomes.
	Reason string

	// CommandResult records one executed command. Immutable once
	// produced.
	CommandResult struct {
		// Argv is the command that ran.
		Argv []string
		// ExitCode is the command's exit status.
		ExitCode ExitCode
		// Duration is the wall-clock execution time.
		Duration time.Duration
		// StdoutTail holds the last captured bytes of stdout.
		StdoutTail string
		// StderrTail holds the last captured bytes of stderr.
		StderrTail string
	}

	// EnvironmentResult is the sealed record of one environment's run.
	// It is created when the environment starts executing, appended to
	// per command, and sealed with a terminal Outcome when the sequence
	// ends or short-circuits.
	EnvironmentResult struct {
		// Name is the environment name.
		Name string
		// Outcome is the terminal classification.
		Outcome Outcome
		// Reason qualifies skipped/errored outcomes.
		Reason Reason
		// Err is the underlying error for errored outcomes.
		Err error
		// Commands are the per-command results in execution order.
		Commands []CommandResult
		// Duration covers provisioning and execution.
		Duration time.Duration
	}
)

// Success reports whether the outcome counts toward overall success.
// Skipped environments do not fail a run.
func (o Outcome) Success() bool {
	return o == OutcomePassed || o == OutcomeSkipped
}

// NewSkippedResult creates a sealed result for an environment whose
// runtime was missing and whose spec allows skipping.
func NewSkippedResult(name string, reason Reason) *EnvironmentResult {
	return &EnvironmentResult{Name: name, Outcome: OutcomeSkipped, Reason: reason}
}

// NewErroredResult creates a sealed result for an environment that could
// not run to a verdict.
func NewErroredResult(name string, reason Reason, err error) *EnvironmentResult {
	return &EnvironmentResult{Name: name, Outcome: OutcomeErrored, Reason: reason, Err: err}
}

// FailedCommand returns the last command result when the environment
// failed, or nil otherwise.
func (r *EnvironmentResult) FailedCommand() *CommandResult {
	if r.Outcome != OutcomeFailed || len(r.Commands) == 0 {
		return nil
	}
	return &r.Commands[len(r.Commands)-1]
}
