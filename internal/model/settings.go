package model

import (
	"fmt"
	"strconv"
	"time"
)

// AI content modes, controlling which reminder kinds get generated content.
const (
	AIModeSmart   = "smart"   // important kinds generated, rest templated
	AIModeFull    = "full"    // everything generated
	AIModeMinimal = "minimal" // daily tip only
	AIModeOff     = "off"     // templates only
)

// IntervalSetting configures an interval reminder kind.
type IntervalSetting struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	WindowStart     string `json:"window_start,omitempty"` // "HH:MM"
	WindowEnd       string `json:"window_end,omitempty"`
}

// ClockSetting configures a clock-time reminder kind.
type ClockSetting struct {
	Enabled      bool     `json:"enabled"`
	Times        []string `json:"times"` // "HH:MM"
	WorkdaysOnly bool     `json:"workdays_only,omitempty"`
}

// Settings is the application settings singleton. Missing fields fall
// back to DefaultSettings values on load.
type Settings struct {
	Key string `json:"key"`

	Water         IntervalSetting `json:"water"`
	WaterTargetML int             `json:"water_target_ml"`
	StandUp       IntervalSetting `json:"stand_up"`
	EyeRest       IntervalSetting `json:"eye_rest"`
	Posture       IntervalSetting `json:"posture"`
	Nutrition     ClockSetting    `json:"nutrition"`
	Relaxation    ClockSetting    `json:"relaxation"`
	Nap           ClockSetting    `json:"nap"`
	FetalMovement ClockSetting    `json:"fetal_movement"`

	// Quiet hours: only Urgent reminders fire inside the window.
	QuietStart string `json:"quiet_start,omitempty"` // "HH:MM"
	QuietEnd   string `json:"quiet_end,omitempty"`

	SnoozeDefault   Duration `json:"snooze_default"`
	EscalateEvery   int      `json:"escalate_every"` // unacked fires per priority step
	AIMode          string   `json:"ai_mode"`
	FetalMovementWk int      `json:"fetal_movement_week"` // earliest week for fetal movement rules

	UpdatedAt time.Time `json:"updated_at"`
}

// Duration wraps time.Duration with string JSON encoding ("10m").
type Duration time.Duration

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON decodes a duration from a string or nanosecond number.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		parsed, err := time.ParseDuration(s[1 : len(s)-1])
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	// Legacy numeric encoding (nanoseconds).
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(ns)
	return nil
}

// SetKey sets the database key for the settings.
func (s *Settings) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for the settings.
func (s *Settings) GetKey() string {
	return s.Key
}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		Key:           KeySettings,
		Water:         IntervalSetting{Enabled: true, IntervalMinutes: 45, WindowStart: "09:00", WindowEnd: "18:00"},
		WaterTargetML: 1800,
		StandUp:       IntervalSetting{Enabled: true, IntervalMinutes: 45, WindowStart: "09:00", WindowEnd: "18:00"},
		EyeRest:       IntervalSetting{Enabled: true, IntervalMinutes: 20},
		Posture:       IntervalSetting{Enabled: true, IntervalMinutes: 30},
		Nutrition: ClockSetting{
			Enabled:      true,
			Times:        []string{"10:00", "15:00"},
			WorkdaysOnly: true,
		},
		Relaxation: ClockSetting{
			Enabled:      true,
			Times:        []string{"10:30", "16:00"},
			WorkdaysOnly: true,
		},
		Nap: ClockSetting{
			Enabled:      true,
			Times:        []string{"12:30"},
			WorkdaysOnly: true,
		},
		FetalMovement: ClockSetting{
			Enabled: true,
			Times:   []string{"09:00", "14:00", "20:00"},
		},
		SnoozeDefault:   Duration(10 * time.Minute),
		EscalateEvery:   3,
		AIMode:          AIModeSmart,
		FetalMovementWk: 18,
		UpdatedAt:       time.Now(),
	}
}

// ValidAIModes returns the valid AI mode options.
func ValidAIModes() []string {
	return []string{AIModeSmart, AIModeFull, AIModeMinimal, AIModeOff}
}

// IsValidAIMode checks if an AI mode is valid.
func IsValidAIMode(mode string) bool {
	for _, valid := range ValidAIModes() {
		if mode == valid {
			return true
		}
	}
	return false
}

// GeneratedKinds returns the reminder kinds that get AI-generated content
// under the current mode.
func (s *Settings) GeneratedKinds() []ReminderKind {
	switch s.AIMode {
	case AIModeFull:
		return []ReminderKind{KindPregnancyTip, KindNutrition, KindPosture, KindStandUp, KindRelaxation}
	case AIModeSmart:
		return []ReminderKind{KindPregnancyTip, KindNutrition, KindPosture}
	case AIModeMinimal:
		return []ReminderKind{KindPregnancyTip}
	default:
		return nil
	}
}
