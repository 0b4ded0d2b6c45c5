// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"matrixrun/internal/config"
	"matrixrun/internal/executor"
	"matrixrun/internal/report"
	"matrixrun/internal/sandbox"
	"matrixrun/internal/scheduler"
	"matrixrun/pkg/matrixfile"
)

// runMatrix is the root RunE: load, select, provision, execute, report.
func runMatrix(cmd *cobra.Command, _ []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &ExitError{Code: report.ExitConfig, Err: err}
	}

	m, selected, err := loadSelection(cfg)
	if err != nil {
		return &ExitError{Code: report.ExitConfig, Err: err}
	}
	if len(selected) == 0 {
		return &ExitError{Code: report.ExitConfig, Err: errors.New("no environments selected")}
	}

	concurrency := parallel
	if concurrency <= 0 {
		concurrency = cfg.Parallel
	}

	provisioner := sandbox.NewProvisioner(cfg.CacheDir)
	provisioner.Recreate = recreate

	runner := &executor.Executor{TailSize: cfg.TailBytes}
	if verbose && concurrency <= 1 {
		// Streaming interleaves badly across workers, so the full
		// output only streams for sequential runs.
		runner.Stdout = cmd.OutOrStdout()
		runner.Stderr = cmd.ErrOrStderr()
	}

	sched := &scheduler.Scheduler{
		Provisioner: provisioner,
		Runner:      runner,
		Concurrency: concurrency,
		SkipMissing: m.SkipMissing,
	}

	results := sched.Run(cmd.Context(), selected)
	rep := report.Aggregate(results)
	rep.Render(cmd.OutOrStdout())

	if code := rep.ExitCode(); code != report.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// loadSelection parses the matrixfile and resolves the requested
// environment subset.
func loadSelection(cfg *config.Config) (*matrixfile.Matrixfile, []*matrixfile.EnvironmentSpec, error) {
	path := matrixfilePath
	if path == "" {
		path = cfg.Matrixfile
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}

	m, err := matrixfile.Parse(path)
	if err != nil {
		return nil, nil, err
	}

	selected, err := m.ResolveSelection(envSelector)
	if err != nil {
		return nil, nil, err
	}
	return m, selected, nil
}
