package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ClockTime is a wall-clock time of day without a date.
type ClockTime struct {
	Hour   int
	Minute int
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	matches := clockPattern.FindStringSubmatch(s)
	if matches == nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if hour > 23 || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// IsValidClockTime reports whether s is a valid "HH:MM" string.
func IsValidClockTime(s string) bool {
	_, err := ParseClockTime(s)
	return err == nil
}

// String returns the canonical "HH:MM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the minute of day.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On resolves the clock time onto the calendar day of ref, in ref's location.
// Wall-clock resolution means timezone changes simply shift where the next
// occurrence lands.
func (c ClockTime) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour, c.Minute, 0, 0, ref.Location())
}

// NextAfter returns the next occurrence of the clock time strictly after ref.
func (c ClockTime) NextAfter(ref time.Time) time.Time {
	at := c.On(ref)
	if !at.After(ref) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// InWindow reports whether t falls inside the [start, end] wall-clock
// window. An empty start or end means no window. Windows may cross
// midnight ("22:00" to "06:00").
func InWindow(t time.Time, start, end string) bool {
	if start == "" || end == "" {
		return true
	}

	s, err := ParseClockTime(start)
	if err != nil {
		return true
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return true
	}

	now := t.Hour()*60 + t.Minute()
	if s.Minutes() <= e.Minutes() {
		return now >= s.Minutes() && now <= e.Minutes()
	}
	// Crosses midnight
	return now >= s.Minutes() || now <= e.Minutes()
}

// IsWorkday reports whether t falls Monday through Friday.
func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
