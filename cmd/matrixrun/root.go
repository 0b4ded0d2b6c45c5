// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// envSelector restricts the run to named environments.
	envSelector string
	// parallel caps concurrently running environments.
	parallel int
	// recreate forces fresh sandboxes, ignoring the cache.
	recreate bool
	// matrixfilePath overrides the default matrixfile location.
	matrixfilePath string
	// cfgFile allows specifying a custom config file.
	cfgFile string
	// verbose enables debug logging and streamed command output.
	verbose bool

	// rootCmd represents the base command. Invoking matrixrun with no
	// arguments runs the default environment list.
	rootCmd = &cobra.Command{
		Use:   "matrixrun",
		Short: "A multi-environment test-matrix orchestrator",
		Long: TitleStyle.Render("matrixrun") + SubtitleStyle.Render(" - run a test matrix across isolated environments") + `

matrixrun reads a matrixfile declaring named execution environments,
provisions an isolated sandbox per environment, installs each
environment's dependencies, and runs its command sequence. Outcomes
aggregate into one summary and one process exit code.

` + SubtitleStyle.Render("Examples:") + `
  matrixrun                 Run the default environment list
  matrixrun -e py311        Run a single environment
  matrixrun -e py311,lint   Run a selection, including auxiliary checks
  matrixrun -p 4            Run up to four environments concurrently
  matrixrun --recreate      Rebuild sandboxes from scratch
  matrixrun list            Show the declared environments`,
		SilenceUsage: true,
		RunE:         runMatrix,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&matrixfilePath, "file", "f", "", "matrixfile path (default matrixfile.cue in the working directory)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().StringVarP(&envSelector, "env", "e", "", "environments to run: comma-separated names or 'all'")
	rootCmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "max environments running concurrently (default from config)")
	rootCmd.Flags().BoolVar(&recreate, "recreate", false, "force fresh sandboxes, ignoring the cache")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and maps ExitError onto the process exit code.
// Exit codes: 0 full success, 1 any environment failure, 2 config or
// selection error.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
