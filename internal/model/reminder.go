package model

import (
	"fmt"
	"time"
)

// ReminderKind identifies the wellness concern a rule nudges about.
type ReminderKind string

// Reminder kinds.
const (
	KindWater         ReminderKind = "water"
	KindStandUp       ReminderKind = "stand_up"
	KindEyeRest       ReminderKind = "eye_rest"
	KindPosture       ReminderKind = "posture"
	KindNutrition     ReminderKind = "nutrition"
	KindRelaxation    ReminderKind = "relaxation"
	KindNap           ReminderKind = "nap"
	KindMedication    ReminderKind = "medication"
	KindPregnancyTip  ReminderKind = "pregnancy_tip"
	KindFetalMovement ReminderKind = "fetal_movement"
	KindEvent         ReminderKind = "event"
)

// ReminderRule is a single scheduled reminder the engine evaluates each tick.
//
// A rule has exactly one trigger shape: an interval in minutes, a list of
// daily clock times, or an absolute one-shot time. Engine state (NextFire,
// UnackedFires, SnoozedUntil) is persisted on the rule itself so a daemon
// restart resumes where it left off.
type ReminderRule struct {
	Key      string       `json:"key"`
	Kind     ReminderKind `json:"kind"`
	Title    string       `json:"title" validate:"required,max=200"`
	Message  string       `json:"message,omitempty"`
	Priority Priority     `json:"priority"`
	Enabled  bool         `json:"enabled"`

	// Trigger shape.
	IntervalMinutes int        `json:"interval_minutes,omitempty"`
	ClockTimes      []string   `json:"clock_times,omitempty"` // "HH:MM"
	At              time.Time  `json:"at,omitempty"`
	Repeat          RepeatRule `json:"repeat,omitempty"`

	// Interval rules only fire inside the active window when one is set.
	// The window may cross midnight ("22:00" to "06:00").
	WindowStart  string `json:"window_start,omitempty"` // "HH:MM"
	WindowEnd    string `json:"window_end,omitempty"`   // "HH:MM"
	WorkdaysOnly bool   `json:"workdays_only,omitempty"`

	// SourceKey links rules generated from events or medications.
	SourceKey string `json:"source_key,omitempty"`
	// MinWeek gates the rule until the pregnancy reaches this week.
	MinWeek int `json:"min_week,omitempty"`

	// Engine state.
	NextFire     time.Time `json:"next_fire,omitempty"`
	LastFired    time.Time `json:"last_fired,omitempty"`
	UnackedFires int       `json:"unacked_fires,omitempty"`
	SnoozedUntil time.Time `json:"snoozed_until,omitempty"`
	Completed    bool      `json:"completed"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetKey sets the database key for this rule.
func (r *ReminderRule) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this rule.
func (r *ReminderRule) GetKey() string {
	return r.Key
}

// IsInterval reports whether the rule fires on a fixed interval.
func (r *ReminderRule) IsInterval() bool {
	return r.IntervalMinutes > 0
}

// IsClock reports whether the rule fires at daily clock times.
func (r *ReminderRule) IsClock() bool {
	return len(r.ClockTimes) > 0
}

// IsOneShot reports whether the rule fires once at an absolute time.
func (r *ReminderRule) IsOneShot() bool {
	return !r.IsInterval() && !r.IsClock() && !r.At.IsZero()
}

// IsPending returns true if the rule has not completed.
func (r *ReminderRule) IsPending() bool {
	return !r.Completed
}

// IsSnoozed reports whether the rule is snoozed at the given time.
func (r *ReminderRule) IsSnoozed(now time.Time) bool {
	return !r.SnoozedUntil.IsZero() && now.Before(r.SnoozedUntil)
}

// EffectivePriority returns the priority after escalation: one level more
// important for every escalateEvery unacknowledged fires.
func (r *ReminderRule) EffectivePriority(escalateEvery int) Priority {
	if escalateEvery <= 0 {
		return r.Priority
	}
	p := r.Priority
	for i := r.UnackedFires / escalateEvery; i > 0; i-- {
		p = p.Escalate()
	}
	return p
}

// NextOneShot calculates the next occurrence for a recurring one-shot rule.
// Returns the zero time when the rule does not recur.
func (r *ReminderRule) NextOneShot() time.Time {
	switch r.Repeat {
	case RepeatDaily:
		return r.At.AddDate(0, 0, 1)
	case RepeatWeekly:
		return r.At.AddDate(0, 0, 7)
	case RepeatMonthly:
		return r.At.AddDate(0, 1, 0)
	case RepeatWorkdays:
		next := r.At.AddDate(0, 0, 1)
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
		return next
	default:
		return time.Time{}
	}
}

// ShortID returns the first 6 characters of the UUID for display.
func (r *ReminderRule) ShortID() string {
	// Key format: "reminder:uuid"
	prefix := len(PrefixReminder) + 1
	if len(r.Key) >= prefix+6 {
		return r.Key[prefix : prefix+6]
	}
	return r.Key
}

// GenerateReminderKey generates a database key for a rule using UUID.
func GenerateReminderKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixReminder, uuid)
}

// NewIntervalRule creates an interval rule firing every intervalMinutes.
func NewIntervalRule(kind ReminderKind, title string, intervalMinutes int, priority Priority) *ReminderRule {
	return &ReminderRule{
		Kind:            kind,
		Title:           title,
		IntervalMinutes: intervalMinutes,
		Priority:        priority,
		Enabled:         true,
		CreatedAt:       time.Now(),
	}
}

// NewClockRule creates a rule firing at the given daily clock times.
func NewClockRule(kind ReminderKind, title string, clockTimes []string, priority Priority) *ReminderRule {
	return &ReminderRule{
		Kind:       kind,
		Title:      title,
		ClockTimes: clockTimes,
		Priority:   priority,
		Enabled:    true,
		CreatedAt:  time.Now(),
	}
}

// NewOneShotRule creates a rule firing once at the given time.
func NewOneShotRule(kind ReminderKind, title string, at time.Time, repeat RepeatRule) *ReminderRule {
	return &ReminderRule{
		Kind:      kind,
		Title:     title,
		At:        at,
		Repeat:    repeat,
		Priority:  PriorityImportant,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}
