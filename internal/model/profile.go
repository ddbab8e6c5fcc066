package model

import "time"

// Profile is the pregnancy profile singleton. The last period date (LMP)
// anchors all week and due-date math.
type Profile struct {
	Key            string    `json:"key"`
	Enabled        bool      `json:"enabled"`
	LastPeriodDate time.Time `json:"last_period_date,omitempty"`
	DailyTipTime   string    `json:"daily_tip_time"` // "HH:MM"
	UpdatedAt      time.Time `json:"updated_at"`
}

// SetKey sets the database key for this profile.
func (p *Profile) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for this profile.
func (p *Profile) GetKey() string {
	return p.Key
}

// HasLMP reports whether a last period date is recorded.
func (p *Profile) HasLMP() bool {
	return !p.LastPeriodDate.IsZero()
}

// NewProfile creates a profile with defaults.
func NewProfile() *Profile {
	return &Profile{
		Key:          KeyProfile,
		DailyTipTime: "09:00",
		UpdatedAt:    time.Now(),
	}
}
