// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"matrixrun/internal/config"
	"matrixrun/internal/report"
)

// listCmd prints the declared environments without running anything.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the environments declared in the matrixfile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return &ExitError{Code: report.ExitConfig, Err: err}
		}

		m, _, err := loadSelection(cfg)
		if err != nil {
			return &ExitError{Code: report.ExitConfig, Err: err}
		}

		defaults := make(map[string]bool, len(m.Defaults))
		for _, name := range m.Defaults {
			defaults[name] = true
		}

		out := cmd.OutOrStdout()
		for i := range m.Envs {
			env := &m.Envs[i]

			var notes []string
			if env.Runtime != "" {
				notes = append(notes, env.Runtime)
			}
			notes = append(notes, fmt.Sprintf("%d commands", len(env.Commands)))
			if defaults[env.Name] || (len(m.Defaults) == 0 && !env.Auxiliary) {
				notes = append(notes, "default")
			}

			name := EnvStyle.Render(env.Name)
			if env.Auxiliary {
				name = AuxStyle.Render(env.Name + " (auxiliary)")
			}
			fmt.Fprintf(out, "%s  %s\n", name, SubtitleStyle.Render(strings.Join(notes, ", ")))
		}
		return nil
	},
}
