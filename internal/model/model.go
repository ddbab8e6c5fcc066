// Package model defines the domain models for Materna.
package model

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// KeyPrefix constants for database key generation.
const (
	PrefixReminder   = "reminder"
	PrefixEvent      = "event"
	PrefixMedication = "medication"
	PrefixWater      = "water"
	PrefixDiet       = "diet"
	PrefixTipCache   = "tipcache"
	PrefixSink       = "sink"
	KeySettings      = "settings"
	KeyProfile       = "profile"
)

// Priority levels for reminders, lower value is more important.
type Priority int

const (
	PriorityUrgent    Priority = 0 // medication, prenatal appointments
	PriorityImportant Priority = 1 // fetal movement, nutrition, events
	PriorityNormal    Priority = 2 // water, stand up, eye rest
	PrioritySuggested Priority = 3 // relaxation, posture
)

// Label returns a human-readable label for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityImportant:
		return "Important"
	case PriorityNormal:
		return "Normal"
	case PrioritySuggested:
		return "Suggested"
	default:
		return "Unknown"
	}
}

// Escalate returns the priority one level more important, clamped at Urgent.
func (p Priority) Escalate() Priority {
	if p <= PriorityUrgent {
		return PriorityUrgent
	}
	return p - 1
}

// RepeatRule describes how an occurrence recurs.
type RepeatRule string

// Repeat rules.
const (
	RepeatOnce     RepeatRule = "once"
	RepeatDaily    RepeatRule = "daily"
	RepeatWeekly   RepeatRule = "weekly"
	RepeatMonthly  RepeatRule = "monthly"
	RepeatWorkdays RepeatRule = "workdays"
)

// Recurs reports whether the rule produces further occurrences.
func (r RepeatRule) Recurs() bool {
	return r != "" && r != RepeatOnce
}

// ValidRepeatRules returns the valid repeat rule options.
func ValidRepeatRules() []RepeatRule {
	return []RepeatRule{RepeatOnce, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatWorkdays}
}

// IsValidRepeatRule checks if a repeat rule is valid.
func IsValidRepeatRule(rule RepeatRule) bool {
	for _, valid := range ValidRepeatRules() {
		if rule == valid {
			return true
		}
	}
	return false
}
