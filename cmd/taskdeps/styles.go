// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminals.
const (
	// ColorPrimary is purple, used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for paths and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, used for passing manifests.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for violations and fatal errors.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for unresolved patches.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for task ids and config keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for passing results.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for violations and failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for results that need a human decision.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// TaskStyle is for task ids and configuration keys.
	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// detailStyle indents diagnostic text under a result line.
	detailStyle = lipgloss.NewStyle().
			PaddingLeft(4)
)
