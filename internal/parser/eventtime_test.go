package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventTimeRelative(t *testing.T) {
	tests := []struct {
		input string
		delta time.Duration
	}{
		{"+5m", 5 * time.Minute},
		{"+1h", time.Hour},
		{"+30s", 30 * time.Second},
		{"+2d", 48 * time.Hour},
		{"+1w", 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseEventTime(tt.input)
			require.NoError(t, result.Error)
			assert.InDelta(t, tt.delta, time.Until(result.Time), float64(2*time.Second))
		})
	}
}

func TestParseEventTimeRelativeInvalid(t *testing.T) {
	assert.Error(t, ParseEventTime("+0m").Error)
	assert.Error(t, ParseEventTime("+x").Error)
	assert.Error(t, ParseEventTime("+5q").Error)
}

func TestParseEventTimeEmpty(t *testing.T) {
	result := ParseEventTime("")
	assert.Error(t, result.Error)

	result = ParseEventTime("   ")
	assert.Error(t, result.Error)
}

func TestParseEventTimeISO(t *testing.T) {
	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02 15:04")
	result := ParseEventTime(future)
	require.NoError(t, result.Error)
	assert.True(t, result.Time.After(time.Now()))
}

func TestParseEventTimeNaturalLanguage(t *testing.T) {
	result := ParseEventTime("tomorrow 2pm")
	require.NoError(t, result.Error)
	assert.True(t, result.Time.After(time.Now()))
	assert.Equal(t, 14, result.Time.Hour())
}

func TestParseEventTimePastDateRejected(t *testing.T) {
	result := ParseEventTime("2020-01-01 10:00")
	assert.Error(t, result.Error)
}

func TestParseEventTimeGarbage(t *testing.T) {
	result := ParseEventTime("not a time at all xyz")
	assert.Error(t, result.Error)
}

func TestParseEventTimeArgs(t *testing.T) {
	result := ParseEventTimeArgs([]string{"tomorrow", "2pm"})
	require.NoError(t, result.Error)
	assert.Equal(t, 14, result.Time.Hour())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-06-01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)},
		{"2026/06/01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)},
		{"2026.06.01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("definitely not a date qq")
	assert.Error(t, err)
}

func TestFormatTimeUntil(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "overdue", FormatTimeUntil(now.Add(-time.Hour)))
	assert.Equal(t, "now", FormatTimeUntil(now.Add(10*time.Second)))
	assert.Equal(t, "in 30m", FormatTimeUntil(now.Add(30*time.Minute+time.Second)))
	assert.Equal(t, "in 2h", FormatTimeUntil(now.Add(2*time.Hour+time.Second)))
	assert.Equal(t, "in 2h15m", FormatTimeUntil(now.Add(2*time.Hour+15*time.Minute+time.Second)))
	assert.Equal(t, "in 3d", FormatTimeUntil(now.Add(72*time.Hour+time.Minute)))
}
