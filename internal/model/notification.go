package model

import (
	"time"
)

// Notification represents a fired reminder on its way to the sinks.
type Notification struct {
	Kind      ReminderKind      `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Priority  Priority          `json:"priority"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Color     int               `json:"color,omitempty"` // Hex color for embeds
}

// NewNotification creates a new notification.
func NewNotification(kind ReminderKind, title, message string) *Notification {
	return &Notification{
		Kind:      kind,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: time.Now(),
		Color:     DefaultColorForPriority(PriorityNormal),
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithPriority sets the priority and matching embed color.
func (n *Notification) WithPriority(p Priority) *Notification {
	n.Priority = p
	n.Color = DefaultColorForPriority(p)
	return n
}

// Notification colors (Discord-compatible hex values).
const (
	ColorUrgent    = 0xED4245 // Red
	ColorImportant = 0xFEE75C // Yellow
	ColorNormal    = 0x3498DB // Blue
	ColorSuggested = 0x57F287 // Green
)

// DefaultColorForPriority returns the embed color for a priority.
func DefaultColorForPriority(p Priority) int {
	switch p {
	case PriorityUrgent:
		return ColorUrgent
	case PriorityImportant:
		return ColorImportant
	case PrioritySuggested:
		return ColorSuggested
	default:
		return ColorNormal
	}
}

// Icon returns an emoji icon name for the reminder kind.
func (n *Notification) Icon() string {
	switch n.Kind {
	case KindWater:
		return "droplet"
	case KindStandUp:
		return "walking"
	case KindEyeRest:
		return "eyes"
	case KindPosture:
		return "chair"
	case KindNutrition:
		return "apple"
	case KindRelaxation:
		return "relieved"
	case KindNap:
		return "zzz"
	case KindMedication:
		return "pill"
	case KindPregnancyTip:
		return "sparkling_heart"
	case KindFetalMovement:
		return "baby"
	case KindEvent:
		return "calendar"
	default:
		return "bell"
	}
}

// KindLabel returns a human-readable label for the reminder kind.
func (n *Notification) KindLabel() string {
	switch n.Kind {
	case KindWater:
		return "Hydration"
	case KindStandUp:
		return "Stand Up"
	case KindEyeRest:
		return "Eye Rest"
	case KindPosture:
		return "Posture"
	case KindNutrition:
		return "Nutrition"
	case KindRelaxation:
		return "Relaxation"
	case KindNap:
		return "Nap"
	case KindMedication:
		return "Medication"
	case KindPregnancyTip:
		return "Daily Tip"
	case KindFetalMovement:
		return "Fetal Movement"
	case KindEvent:
		return "Event"
	default:
		return "Reminder"
	}
}
