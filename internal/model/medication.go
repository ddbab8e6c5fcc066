package model

import (
	"fmt"
	"time"
)

// Medication is a recurring dose schedule, reminded at Urgent priority.
type Medication struct {
	Key          string    `json:"key"`
	Name         string    `json:"name" validate:"required,max=100"`
	Dosage       string    `json:"dosage,omitempty"`
	Times        []string  `json:"times"` // dose times, "HH:MM"
	StartDate    time.Time `json:"start_date,omitempty"`
	DurationDays int       `json:"duration_days,omitempty"` // 0 means open-ended
	Notes        string    `json:"notes,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetKey sets the database key for this medication.
func (m *Medication) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this medication.
func (m *Medication) GetKey() string {
	return m.Key
}

// IsActive reports whether the course is running at the given time.
func (m *Medication) IsActive(now time.Time) bool {
	if !m.Enabled {
		return false
	}
	if !m.StartDate.IsZero() && now.Before(m.StartDate) {
		return false
	}
	if m.DurationDays > 0 && !m.StartDate.IsZero() {
		end := m.StartDate.AddDate(0, 0, m.DurationDays)
		if now.After(end) {
			return false
		}
	}
	return true
}

// ReminderMessage builds the notification body for a dose.
func (m *Medication) ReminderMessage() string {
	msg := fmt.Sprintf("Time to take %s", m.Name)
	if m.Dosage != "" {
		msg += fmt.Sprintf(" (%s)", m.Dosage)
	}
	if m.Notes != "" {
		msg += ". " + m.Notes
	}
	return msg
}

// ShortID returns the first 6 characters of the UUID for display.
func (m *Medication) ShortID() string {
	prefix := len(PrefixMedication) + 1
	if len(m.Key) >= prefix+6 {
		return m.Key[prefix : prefix+6]
	}
	return m.Key
}

// GenerateMedicationKey generates a database key for a medication using UUID.
func GenerateMedicationKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixMedication, uuid)
}

// NewMedication creates a new medication schedule.
func NewMedication(name, dosage string, times []string) *Medication {
	return &Medication{
		Name:      name,
		Dosage:    dosage,
		Times:     times,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}
