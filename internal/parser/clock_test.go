package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"9:05", 9, 5, false},
		{"23:59", 23, 59, false},
		{"00:00", 0, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"9", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ct, err := ParseClockTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, ct.Hour)
			assert.Equal(t, tt.minute, ct.Minute)
		})
	}
}

func TestIsValidClockTime(t *testing.T) {
	assert.True(t, IsValidClockTime("08:30"))
	assert.False(t, IsValidClockTime("25:00"))
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "09:05", ClockTime{Hour: 9, Minute: 5}.String())
}

func TestClockTimeMinutes(t *testing.T) {
	assert.Equal(t, 0, ClockTime{}.Minutes())
	assert.Equal(t, 14*60+30, ClockTime{Hour: 14, Minute: 30}.Minutes())
}

func TestClockTimeNextAfter(t *testing.T) {
	ref := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)
	ct := ClockTime{Hour: 14, Minute: 30}

	// Later today
	next := ct.NextAfter(ref)
	assert.Equal(t, time.Date(2026, 8, 25, 14, 30, 0, 0, time.Local), next)

	// Already passed today rolls to tomorrow
	ct = ClockTime{Hour: 9, Minute: 0}
	next = ct.NextAfter(ref)
	assert.Equal(t, time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local), next)

	// Exactly now is not "after"
	ct = ClockTime{Hour: 12, Minute: 0}
	next = ct.NextAfter(ref)
	assert.Equal(t, time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local), next)
}

func TestInWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 25, h, m, 0, 0, time.Local)
	}

	t.Run("daytime_window", func(t *testing.T) {
		assert.True(t, InWindow(at(12, 0), "09:00", "18:00"))
		assert.True(t, InWindow(at(9, 0), "09:00", "18:00"))
		assert.True(t, InWindow(at(18, 0), "09:00", "18:00"))
		assert.False(t, InWindow(at(8, 59), "09:00", "18:00"))
		assert.False(t, InWindow(at(20, 0), "09:00", "18:00"))
	})

	t.Run("crosses_midnight", func(t *testing.T) {
		assert.True(t, InWindow(at(23, 0), "22:00", "06:00"))
		assert.True(t, InWindow(at(3, 0), "22:00", "06:00"))
		assert.True(t, InWindow(at(6, 0), "22:00", "06:00"))
		assert.False(t, InWindow(at(12, 0), "22:00", "06:00"))
	})

	t.Run("no_window", func(t *testing.T) {
		assert.True(t, InWindow(at(3, 0), "", ""))
		assert.True(t, InWindow(at(3, 0), "09:00", ""))
	})

	t.Run("malformed_window_is_open", func(t *testing.T) {
		assert.True(t, InWindow(at(3, 0), "bogus", "18:00"))
		assert.True(t, InWindow(at(3, 0), "09:00", "bogus"))
	})
}

func TestIsWorkday(t *testing.T) {
	// 2026-08-24 is a Monday
	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	assert.True(t, IsWorkday(monday))
	assert.True(t, IsWorkday(monday.AddDate(0, 0, 4)))  // Friday
	assert.False(t, IsWorkday(monday.AddDate(0, 0, 5))) // Saturday
	assert.False(t, IsWorkday(monday.AddDate(0, 0, 6))) // Sunday
}
