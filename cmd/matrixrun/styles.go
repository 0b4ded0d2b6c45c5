// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

// CLI-local styles for help text and the environment listing. Report
// rendering has its own palette in internal/report.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	// EnvStyle is for environment names in listings.
	EnvStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	// AuxStyle marks auxiliary environments in listings.
	AuxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)
