package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		valid    bool
	}{
		{"go_format", "2h30m", 2*time.Hour + 30*time.Minute, true},
		{"minutes_suffix", "10m", 10 * time.Minute, true},
		{"hours_suffix", "2h", 2 * time.Hour, true},
		{"bare_number_defaults_to_minutes", "15", 15 * time.Minute, true},
		{"long_unit", "10 minutes", 10 * time.Minute, true},
		{"hour_word", "1 hour", time.Hour, true},
		{"combined_words", "1h 30m", time.Hour + 30*time.Minute, true},
		{"fractional_hours", "2.5h", 2*time.Hour + 30*time.Minute, true},
		{"seconds", "90s", 90 * time.Second, true},
		{"whitespace", "  20m  ", 20 * time.Minute, true},
		{"empty", "", 0, false},
		{"garbage", "soon", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-5m", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseDuration(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Equal(t, tt.expected, result.Duration)
			}
		})
	}
}
