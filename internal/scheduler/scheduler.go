// SPDX-License-Identifier: MPL-2.0

// Package scheduler orchestrates provisioning and execution of the
// selected environments under a bounded worker pool.
//
// Environments are independent units of work: one environment's failure
// never prevents others from running. Only an external cancellation
// abandons remaining work. Results come back in selection order no
// matter which environment finishes first.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"matrixrun/internal/executor"
	"matrixrun/internal/sandbox"
	"matrixrun/pkg/matrixfile"
)

type (
	// Provisioner materializes a sandbox for a spec. Satisfied by
	// *sandbox.Provisioner.
	Provisioner interface {
		Provision(ctx context.Context, spec *matrixfile.EnvironmentSpec) (*sandbox.Sandbox, error)
	}

	// Runner executes a spec's command sequence inside its sandbox.
	// Satisfied by *executor.Executor.
	Runner interface {
		Run(ctx context.Context, spec *matrixfile.EnvironmentSpec, sb *sandbox.Sandbox) *executor.EnvironmentResult
	}

	// Scheduler runs selected environments with bounded concurrency.
	Scheduler struct {
		// Provisioner builds sandboxes.
		Provisioner Provisioner
		// Runner executes command sequences.
		Runner Runner
		// Concurrency caps simultaneously running environments.
		// Values below one mean fully sequential.
		Concurrency int
		// SkipMissing is the file-level skip flag applied when a spec
		// does not override it.
		SkipMissing bool
		// Logger receives per-environment progress logging. When nil,
		// the package default logger is used.
		Logger *log.Logger
	}
)

// Run provisions and executes every spec and returns one sealed result
// per spec, in selection order. It never fails as a whole: per-
// environment problems are contained in the corresponding result.
func (s *Scheduler) Run(ctx context.Context, specs []*matrixfile.EnvironmentSpec) []*executor.EnvironmentResult {
	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}

	results := make([]*executor.EnvironmentResult, len(specs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = s.runOne(ctx, spec)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; outcomes live in results

	return results
}

// runOne takes a single environment from provisioning to a sealed
// result, mapping provisioning failures onto the outcome taxonomy.
func (s *Scheduler) runOne(ctx context.Context, spec *matrixfile.EnvironmentSpec) *executor.EnvironmentResult {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}

	started := time.Now()
	result := s.provisionAndRun(ctx, spec, logger)
	result.Duration = time.Since(started)

	logger.Debug("environment finished",
		"env", spec.Name, "outcome", result.Outcome, "duration", result.Duration)
	return result
}

func (s *Scheduler) provisionAndRun(ctx context.Context, spec *matrixfile.EnvironmentSpec, logger *log.Logger) *executor.EnvironmentResult {
	if err := ctx.Err(); err != nil {
		return executor.NewErroredResult(spec.Name, executor.ReasonInterrupted, err)
	}

	sb, err := s.Provisioner.Provision(ctx, spec)
	if err != nil {
		switch {
		case errors.Is(err, sandbox.ErrRuntimeNotFound):
			if spec.SkipMissingRuntime(s.SkipMissing) {
				logger.Debug("skipping environment, runtime missing", "env", spec.Name, "runtime", spec.Runtime)
				return executor.NewSkippedResult(spec.Name, executor.ReasonRuntimeMissing)
			}
			return executor.NewErroredResult(spec.Name, executor.ReasonRuntimeMissing, err)
		case errors.Is(err, sandbox.ErrInstallFailed):
			return executor.NewErroredResult(spec.Name, executor.ReasonInstallFailed, err)
		case ctx.Err() != nil:
			return executor.NewErroredResult(spec.Name, executor.ReasonInterrupted, err)
		default:
			return executor.NewErroredResult(spec.Name, executor.ReasonProvisionFailed, err)
		}
	}

	return s.Runner.Run(ctx, spec, sb)
}
