package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/materna-cli/materna/internal/model"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#EC4899") // Pink
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorAccent  = lipgloss.Color("#3B82F6") // Blue

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleKind = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleUrgent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render("✓ " + text))
	} else {
		c.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render("⚠ " + text))
	} else {
		c.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render("✗ " + text))
	} else {
		c.Println("✗ " + text)
	}
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// KindName formats a reminder kind name.
func (c *CLIFormatter) KindName(kind model.ReminderKind) string {
	name := strings.ReplaceAll(string(kind), "_", " ")
	if c.IsColorEnabled() {
		return styleKind.Render(name)
	}
	return name
}

// PriorityBadge formats a priority label, urgent ones stand out.
func (c *CLIFormatter) PriorityBadge(p model.Priority) string {
	label := p.Label()
	if !c.IsColorEnabled() {
		return label
	}
	if p == model.PriorityUrgent {
		return styleUrgent.Render(label)
	}
	return styleMuted.Render(label)
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return bar
}

// PrintWaterProgress prints the day's hydration progress with a bar.
func (c *CLIFormatter) PrintWaterProgress(totalML, targetML int) {
	pct := 0.0
	if targetML > 0 {
		pct = float64(totalML) / float64(targetML) * 100
	}

	c.Printf("%s %dml / %dml (%.0f%%)\n", ProgressBar(pct, 20), totalML, targetML, pct)

	switch {
	case totalML >= targetML:
		c.Success("Daily target reached!")
	case pct >= 75:
		c.Muted("Almost there, keep sipping.")
	}
}

// Table helpers for CLI output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	// Print headers
	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	if c.IsColorEnabled() {
		c.Println(styleBold.Render(headerLine.String()))
	} else {
		c.Println(headerLine.String())
	}

	// Print separator
	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(sep.String())

	// Print rows
	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(rowLine.String())
	}
}
