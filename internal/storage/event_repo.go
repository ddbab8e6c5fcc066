package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/materna-cli/materna/internal/model"
)

// EventRepo provides operations for Event entities.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create creates a new event with a generated key.
func (r *EventRepo) Create(event *model.Event) error {
	if event.Key == "" {
		event.Key = model.GenerateEventKey(uuid.New().String())
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Set(event)
}

// Get retrieves an event by key.
func (r *EventRepo) Get(key string) (*model.Event, error) {
	event := &model.Event{}
	if err := r.db.Get(key, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByShortID retrieves an event by short ID prefix match.
func (r *EventRepo) GetByShortID(shortID string) (*model.Event, error) {
	events, err := r.List()
	if err != nil {
		return nil, err
	}

	prefix := len(model.PrefixEvent) + 1
	var matches []*model.Event
	for _, event := range events {
		if len(event.Key) >= prefix+len(shortID) && event.Key[prefix:prefix+len(shortID)] == shortID {
			matches = append(matches, event)
		}
	}

	if len(matches) == 0 {
		return nil, ErrKeyNotFound
	}
	if len(matches) > 1 {
		return nil, &AmbiguousMatchError{Matches: len(matches)}
	}
	return matches[0], nil
}

// List retrieves all events.
func (r *EventRepo) List() ([]*model.Event, error) {
	return GetAllByPrefix(r.db, model.PrefixEvent+":", func() *model.Event {
		return &model.Event{}
	})
}

// ListEnabled retrieves all enabled events.
func (r *EventRepo) ListEnabled() ([]*model.Event, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var enabled []*model.Event
	for _, event := range all {
		if event.Enabled {
			enabled = append(enabled, event)
		}
	}
	return enabled, nil
}

// ListCountdowns retrieves all enabled countdown events.
func (r *EventRepo) ListCountdowns() ([]*model.Event, error) {
	enabled, err := r.ListEnabled()
	if err != nil {
		return nil, err
	}

	var countdowns []*model.Event
	for _, event := range enabled {
		if event.IsCountdown {
			countdowns = append(countdowns, event)
		}
	}
	return countdowns, nil
}

// Update updates an existing event.
func (r *EventRepo) Update(event *model.Event) error {
	return r.db.Set(event)
}

// Delete removes an event by key.
func (r *EventRepo) Delete(key string) error {
	return r.db.Delete(key)
}
