package model

import (
	"fmt"
	"time"
)

// Event is a user-created reminder or countdown, such as a prenatal
// appointment or the due date itself.
type Event struct {
	Key         string     `json:"key"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	RemindAt    time.Time  `json:"remind_at,omitempty"`
	Repeat      RepeatRule `json:"repeat"`
	IsCountdown bool       `json:"is_countdown"`
	TargetDate  time.Time  `json:"target_date,omitempty"` // countdown events only
	Enabled     bool       `json:"enabled"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SetKey sets the database key for this event.
func (e *Event) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this event.
func (e *Event) GetKey() string {
	return e.Key
}

// DaysUntilTarget returns whole days until the countdown target date.
func (e *Event) DaysUntilTarget(now time.Time) int {
	if e.TargetDate.IsZero() {
		return 0
	}
	target := time.Date(e.TargetDate.Year(), e.TargetDate.Month(), e.TargetDate.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(target.Sub(today).Hours() / 24)
}

// ShortID returns the first 6 characters of the UUID for display.
func (e *Event) ShortID() string {
	prefix := len(PrefixEvent) + 1
	if len(e.Key) >= prefix+6 {
		return e.Key[prefix : prefix+6]
	}
	return e.Key
}

// GenerateEventKey generates a database key for an event using UUID.
func GenerateEventKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixEvent, uuid)
}

// NewEvent creates a new reminder event.
func NewEvent(title string, remindAt time.Time, repeat RepeatRule) *Event {
	if repeat == "" {
		repeat = RepeatOnce
	}
	return &Event{
		Title:     title,
		RemindAt:  remindAt,
		Repeat:    repeat,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}

// NewCountdown creates a countdown event toward a target date. Countdowns
// are display-only and never scheduled.
func NewCountdown(title string, target time.Time) *Event {
	return &Event{
		Title:       title,
		Repeat:      RepeatOnce,
		IsCountdown: true,
		TargetDate:  target,
		Enabled:     true,
		CreatedAt:   time.Now(),
	}
}
