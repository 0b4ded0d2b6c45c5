// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across report
// output. Designed for dark terminal backgrounds with good contrast.
const (
	// ColorSuccess is green - used for passed environments.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for failed and errored environments.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for skipped environments.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorMuted is gray - used for durations and secondary detail.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorHighlight is blue - used for command lines.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// PassStyle renders passed status markers.
	PassStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// FailStyle renders failed and errored status markers.
	FailStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// SkipStyle renders skipped status markers.
	SkipStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// MutedStyle renders durations and reasons.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// CmdStyle renders command lines in failure detail.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
