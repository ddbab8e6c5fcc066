package storage

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
)

// SettingsRepo provides operations for the Settings singleton.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the settings, creating defaults if they don't exist.
// Stored settings are decoded over defaults so new fields pick up their
// default value.
func (r *SettingsRepo) Get() (*model.Settings, error) {
	settings := model.DefaultSettings()
	err := r.db.Get(model.KeySettings, settings)
	if err == nil {
		return settings, nil
	}

	if !IsErrKeyNotFound(err) {
		return nil, err
	}

	if err := r.db.Set(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update updates the settings.
func (r *SettingsRepo) Update(settings *model.Settings) error {
	settings.UpdatedAt = time.Now()
	return r.db.Set(settings)
}

// ProfileRepo provides operations for the pregnancy Profile singleton.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new profile repository.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get retrieves the profile, creating it if it doesn't exist.
func (r *ProfileRepo) Get() (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.Get(model.KeyProfile, profile)
	if err == nil {
		if profile.DailyTipTime == "" {
			profile.DailyTipTime = "09:00"
		}
		return profile, nil
	}

	if !IsErrKeyNotFound(err) {
		return nil, err
	}

	profile = model.NewProfile()
	if err := r.db.Set(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update updates the profile.
func (r *ProfileRepo) Update(profile *model.Profile) error {
	profile.UpdatedAt = time.Now()
	return r.db.Set(profile)
}
