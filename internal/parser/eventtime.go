package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// EventTimeResult holds the parsed event time and any error.
type EventTimeResult struct {
	Time  time.Time
	Error error
}

// relativeRegex matches relative time expressions like "+5m", "+1h", "+2d".
var relativeRegex = regexp.MustCompile(`^\+(\d+)([smhdw])$`)

// ParseEventTime parses a natural language event time expression.
// Supports formats like:
//   - "+5m", "+1h", "+2d" (relative)
//   - "friday 5pm", "tomorrow 2pm" (natural language)
//   - "2026-01-15 14:00" (ISO format)
func ParseEventTime(input string) EventTimeResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return EventTimeResult{Error: fmt.Errorf("event time is required")}
	}

	// Check for relative time format (+5m, +1h, etc.)
	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelativeEventTime(match[1], match[2])
	}
	// A leading "+" always means relative time. Letting malformed ones
	// fall through would hand "+x" to the date parser, which reads "x"
	// as a Roman numeral.
	if strings.HasPrefix(input, "+") {
		return EventTimeResult{Error: fmt.Errorf("invalid relative time %q", input)}
	}

	// Use go-dateparser for natural language parsing
	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return EventTimeResult{Error: fmt.Errorf("could not parse event time %q", input)}
	}

	// Ensure the time is in the future
	if result.Time.Before(time.Now()) {
		// If it's today but in the past, try to interpret as tomorrow
		if isSameDay(result.Time, time.Now()) {
			result.Time = result.Time.AddDate(0, 0, 1)
		} else {
			return EventTimeResult{Error: fmt.Errorf("event time must be in the future")}
		}
	}

	return EventTimeResult{Time: result.Time}
}

// ParseEventTimeArgs joins multiple CLI args into one expression and parses it.
func ParseEventTimeArgs(args []string) EventTimeResult {
	return ParseEventTime(strings.Join(args, " "))
}

// ParseDate parses a bare date like "2025-06-01" or "2025/06/01".
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006.01.02"} {
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return t, nil
		}
	}

	cfg := &dateparser.Configuration{CurrentTime: time.Now()}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", input)
	}
	return result.Time, nil
}

// parseRelativeEventTime converts "+N<unit>" into an absolute time.
func parseRelativeEventTime(amount, unit string) EventTimeResult {
	n, err := strconv.Atoi(amount)
	if err != nil || n <= 0 {
		return EventTimeResult{Error: fmt.Errorf("invalid relative time amount %q", amount)}
	}

	now := time.Now()
	switch unit {
	case "s":
		return EventTimeResult{Time: now.Add(time.Duration(n) * time.Second)}
	case "m":
		return EventTimeResult{Time: now.Add(time.Duration(n) * time.Minute)}
	case "h":
		return EventTimeResult{Time: now.Add(time.Duration(n) * time.Hour)}
	case "d":
		return EventTimeResult{Time: now.AddDate(0, 0, n)}
	case "w":
		return EventTimeResult{Time: now.AddDate(0, 0, n*7)}
	default:
		return EventTimeResult{Error: fmt.Errorf("invalid relative time unit %q", unit)}
	}
}

// isSameDay reports whether two times fall on the same calendar day.
func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatTimeUntil formats the duration until t for display ("in 2h15m").
func FormatTimeUntil(t time.Time) string {
	d := time.Until(t)
	if d < 0 {
		return "overdue"
	}
	d = d.Round(time.Minute)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) - h*60
		if m == 0 {
			return fmt.Sprintf("in %dh", h)
		}
		return fmt.Sprintf("in %dh%dm", h, m)
	}
	days := int(d.Hours() / 24)
	return fmt.Sprintf("in %dd", days)
}
