package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/output"
	"github.com/materna-cli/materna/internal/pregnancy"
)

// PregnancyComponent displays the pregnancy week and due date.
type PregnancyComponent struct {
	Status  *pregnancy.Status
	Width   int
	Tracked bool
}

// NewPregnancyComponent creates a new pregnancy component.
func NewPregnancyComponent(status *pregnancy.Status, width int) *PregnancyComponent {
	return &PregnancyComponent{
		Status:  status,
		Width:   width,
		Tracked: status != nil,
	}
}

// View renders the pregnancy component.
func (pc *PregnancyComponent) View() string {
	var content strings.Builder

	if !pc.Tracked {
		content.WriteString(StyleMuted.Render("Pregnancy tracking is off"))
		content.WriteString("\n\n")
		content.WriteString(StyleSubtitle.Render("Use 'materna week set <date>' to set your last period date"))

		box := StylePregnancyBox.Width(pc.Width - 4)
		return box.Render(content.String())
	}

	s := pc.Status

	content.WriteString(StyleWeek.Render(fmt.Sprintf("Week %s", s.Display())))
	content.WriteString("  ")
	content.WriteString(StyleSubtitle.Render(s.TrimesterName()))
	content.WriteString("\n\n")

	barWidth := pc.Width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	pct := float64(s.Week) / float64(pregnancy.FullTermWeek) * 100
	content.WriteString(ProgressBar(pct, barWidth, ColorPrimary))
	content.WriteString("\n\n")

	if s.Overdue {
		content.WriteString(StyleWarning.Render(fmt.Sprintf("%d days past the due date", -s.DaysUntilDue)))
	} else {
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("Due %s (%d days)",
			output.FormatDate(s.DueDate), s.DaysUntilDue)))
	}

	if stage := pregnancy.DevelopmentStage(s.Week); stage != "" {
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render(stage))
	}

	box := StylePregnancyBox.Width(pc.Width - 4)
	return box.Render(content.String())
}

// WaterComponent displays today's hydration progress.
type WaterComponent struct {
	TotalML  int
	TargetML int
	Width    int
}

// NewWaterComponent creates a new water component.
func NewWaterComponent(totalML, targetML, width int) *WaterComponent {
	return &WaterComponent{
		TotalML:  totalML,
		TargetML: targetML,
		Width:    width,
	}
}

// View renders the water component.
func (wc *WaterComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Hydration"))
	content.WriteString("\n")

	pct := 0.0
	if wc.TargetML > 0 {
		pct = float64(wc.TotalML) / float64(wc.TargetML) * 100
	}

	barWidth := wc.Width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	content.WriteString(ProgressBar(pct, barWidth, ColorWater))
	content.WriteString("\n")

	progressText := fmt.Sprintf("%dml / %dml (%.0f%%)", wc.TotalML, wc.TargetML, pct)
	if wc.TotalML >= wc.TargetML && wc.TargetML > 0 {
		content.WriteString(StyleSuccess.Render(progressText))
		content.WriteString("\n")
		content.WriteString(StyleSuccess.Render("✓ Daily target reached!"))
	} else {
		content.WriteString(StyleSubtitle.Render(progressText))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("%dml to go", wc.TargetML-wc.TotalML)))
	}

	var box lipgloss.Style
	if wc.TotalML >= wc.TargetML && wc.TargetML > 0 {
		box = StyleWaterDoneBox.Width(wc.Width - 4)
	} else {
		box = StyleWaterBox.Width(wc.Width - 4)
	}

	return box.Render(content.String())
}

// RemindersComponent displays the next scheduled reminders.
type RemindersComponent struct {
	Rules []*model.ReminderRule
	Width int
	Limit int
	Now   time.Time
}

// NewRemindersComponent creates a new reminders component.
func NewRemindersComponent(rules []*model.ReminderRule, width, limit int, now time.Time) *RemindersComponent {
	if limit > 0 && len(rules) > limit {
		rules = rules[:limit]
	}
	return &RemindersComponent{
		Rules: rules,
		Width: width,
		Limit: limit,
		Now:   now,
	}
}

// View renders the reminders component.
func (rc *RemindersComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Next Reminders"))
	content.WriteString("\n")

	if len(rc.Rules) == 0 {
		content.WriteString(StyleMuted.Render("Nothing scheduled"))
	} else {
		for i, rule := range rc.Rules {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(rc.renderRule(rule))
		}
	}

	box := StyleRemindersBox.Width(rc.Width - 4)
	return box.Render(content.String())
}

func (rc *RemindersComponent) renderRule(rule *model.ReminderRule) string {
	var sb strings.Builder

	kind := FormatKind(string(rule.Kind))
	if rule.Priority == model.PriorityUrgent {
		kind = StyleUrgent.Render("! ") + kind
	}
	sb.WriteString(kind)
	sb.WriteString("  ")

	if rule.IsSnoozed(rc.Now) {
		sb.WriteString(StyleSubtitle.Render(fmt.Sprintf("snoozed until %s", output.FormatTimeOnly(rule.SnoozedUntil))))
	} else if rule.NextFire.IsZero() {
		sb.WriteString(StyleSubtitle.Render("pending"))
	} else {
		until := rule.NextFire.Sub(rc.Now)
		if until < 0 {
			until = 0
		}
		sb.WriteString(StyleTime.Render(output.FormatTimeOnly(rule.NextFire)))
		sb.WriteString(StyleSubtitle.Render(fmt.Sprintf(" (in %s)", output.FormatDuration(until))))
	}

	if rule.UnackedFires > 0 {
		sb.WriteString("\n")
		sb.WriteString(StyleWarning.Render(fmt.Sprintf("  %d unanswered", rule.UnackedFires)))
	}

	return sb.String()
}

// CountdownComponent displays countdown events.
type CountdownComponent struct {
	Events []*model.Event
	Width  int
	Now    time.Time
}

// NewCountdownComponent creates a new countdown component.
func NewCountdownComponent(events []*model.Event, width int, now time.Time) *CountdownComponent {
	return &CountdownComponent{
		Events: events,
		Width:  width,
		Now:    now,
	}
}

// View renders the countdown component, or an empty string when there are
// no countdowns.
func (cc *CountdownComponent) View() string {
	if len(cc.Events) == 0 {
		return ""
	}

	var content strings.Builder

	content.WriteString(StyleTitle.Render("Countdowns"))
	content.WriteString("\n")

	for i, event := range cc.Events {
		if i > 0 {
			content.WriteString("\n")
		}
		days := event.DaysUntilTarget(cc.Now)

		content.WriteString(event.Title)
		content.WriteString("  ")
		switch {
		case days < 0:
			content.WriteString(StyleMuted.Render(fmt.Sprintf("%d days ago", -days)))
		case days == 0:
			content.WriteString(StyleSuccess.Render("today!"))
		default:
			content.WriteString(StyleTime.Render(fmt.Sprintf("%d days", days)))
		}
	}

	box := StyleCountdownBox.Width(cc.Width - 4)
	return box.Render(content.String())
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"w", "log water"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
