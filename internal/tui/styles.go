// Package tui provides the terminal user interface components for Materna.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI dashboard.
var (
	ColorPrimary   = lipgloss.Color("#EC4899") // Pink
	ColorSecondary = lipgloss.Color("#8B5CF6") // Violet
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWater     = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleWeek is used for the pregnancy week display.
	StyleWeek = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleKind is used for reminder kind names.
	StyleKind = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// StyleTime is used for times and countdown values.
	StyleTime = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWater)

	// StyleUrgent is used for urgent reminders.
	StyleUrgent = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// StyleWarning is used for warning messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSuccess is used for success messages.
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleMuted is used for muted text.
	StyleMuted = StyleSubtitle
)

// Box styles for the dashboard sections.
var (
	// StylePregnancyBox is used for the pregnancy status section.
	StylePregnancyBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(1, 2).
				MarginBottom(1)

	// StyleWaterBox is used for the hydration section.
	StyleWaterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleWaterDoneBox is used when the daily water target is met.
	StyleWaterDoneBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSuccess).
				Padding(1, 2).
				MarginBottom(1)

	// StyleRemindersBox is used for the upcoming reminders section.
	StyleRemindersBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				MarginBottom(1)

	// StyleCountdownBox is used for the countdown section.
	StyleCountdownBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				MarginBottom(1)
)

// ProgressBar creates a progress bar string.
func ProgressBar(percentage float64, width int, color lipgloss.Color) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	bar := ""
	for i := 0; i < filled; i++ {
		bar += filledStyle.Render("█") // Full block
	}
	for i := 0; i < empty; i++ {
		bar += emptyStyle.Render("░") // Light shade
	}

	return bar
}

// FormatKind renders a reminder kind name for display.
func FormatKind(kind string) string {
	display := ""
	for i, r := range kind {
		if r == '_' {
			display += " "
			continue
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		display += string(r)
	}
	return StyleKind.Render(display)
}
