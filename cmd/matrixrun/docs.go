// SPDX-License-Identifier: MPL-2.0

package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed quickstart.md
var quickstartDoc string

// docsCmd renders the embedded quickstart guide in the terminal.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the matrixfile quickstart guide",
	RunE: func(cmd *cobra.Command, _ []string) error {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}

		rendered, err := renderer.Render(quickstartDoc)
		if err != nil {
			return fmt.Errorf("failed to render docs: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}
