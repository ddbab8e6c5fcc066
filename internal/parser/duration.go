// Package parser provides parsing of user-entered times and durations.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationResult represents the result of parsing a duration.
type DurationResult struct {
	Duration time.Duration
	Valid    bool
}

// durationPattern matches duration expressions like "2h", "30m", "1h30m", "2.5h", etc.
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes|s|sec|secs|second|seconds)?\s*(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes))?$`)

// ParseDuration parses a human-readable duration string.
// Supports formats like:
//   - "10m" or "10 minutes"
//   - "1h30m" or "1 hour 30 minutes"
//   - "2.5h" (2 hours 30 minutes)
func ParseDuration(input string) DurationResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DurationResult{Valid: false}
	}

	// Try standard Go duration format first (e.g., "2h30m")
	if d, err := time.ParseDuration(input); err == nil && d > 0 {
		return DurationResult{Duration: d, Valid: true}
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return DurationResult{Valid: false}
	}

	var totalDuration time.Duration

	if matches[1] != "" {
		value, _ := strconv.ParseFloat(matches[1], 64)
		unit := strings.ToLower(matches[2])
		if unit == "" {
			// Default to minutes: snooze lengths are minute-scale
			unit = "m"
		}
		totalDuration += unitToDuration(value, unit)
	}

	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		unit := strings.ToLower(matches[4])
		totalDuration += unitToDuration(value, unit)
	}

	if totalDuration <= 0 {
		return DurationResult{Valid: false}
	}

	return DurationResult{Duration: totalDuration, Valid: true}
}

// unitToDuration converts a value and unit to a duration.
func unitToDuration(value float64, unit string) time.Duration {
	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(value * float64(time.Hour))
	case "m", "min", "mins", "minute", "minutes":
		return time.Duration(value * float64(time.Minute))
	case "s", "sec", "secs", "second", "seconds":
		return time.Duration(value * float64(time.Second))
	default:
		return time.Duration(value * float64(time.Minute))
	}
}
