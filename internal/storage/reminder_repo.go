package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/materna-cli/materna/internal/model"
)

// ReminderRepo provides operations for ReminderRule entities.
type ReminderRepo struct {
	db *DB
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(db *DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Create creates a new rule with a generated key.
func (r *ReminderRepo) Create(rule *model.ReminderRule) error {
	if rule.Key == "" {
		rule.Key = model.GenerateReminderKey(uuid.New().String())
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}
	return r.db.Set(rule)
}

// Get retrieves a rule by key.
func (r *ReminderRepo) Get(key string) (*model.ReminderRule, error) {
	rule := &model.ReminderRule{}
	if err := r.db.Get(key, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// GetByShortID retrieves a rule by short ID prefix match.
func (r *ReminderRepo) GetByShortID(shortID string) (*model.ReminderRule, error) {
	rules, err := r.List()
	if err != nil {
		return nil, err
	}

	prefix := len(model.PrefixReminder) + 1
	var matches []*model.ReminderRule
	for _, rule := range rules {
		if len(rule.Key) >= prefix+len(shortID) && rule.Key[prefix:prefix+len(shortID)] == shortID {
			matches = append(matches, rule)
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

// AmbiguousMatchError is returned when multiple rules match a short ID.
type AmbiguousMatchError struct {
	Matches int
}

func (e *AmbiguousMatchError) Error() string {
	return "multiple reminders match the given ID"
}

// GetByKind retrieves the first rule of the given kind not tied to a source.
func (r *ReminderRepo) GetByKind(kind model.ReminderKind) (*model.ReminderRule, error) {
	rules, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if rule.Kind == kind && rule.SourceKey == "" {
			return rule, nil
		}
	}
	return nil, ErrKeyNotFound
}

// List retrieves all rules.
func (r *ReminderRepo) List() ([]*model.ReminderRule, error) {
	return GetAllByPrefix(r.db, model.PrefixReminder+":", func() *model.ReminderRule {
		return &model.ReminderRule{}
	})
}

// ListPending retrieves all enabled, not-completed rules.
func (r *ReminderRepo) ListPending() ([]*model.ReminderRule, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var pending []*model.ReminderRule
	for _, rule := range all {
		if rule.Enabled && rule.IsPending() {
			pending = append(pending, rule)
		}
	}
	return pending, nil
}

// ListBySource retrieves rules generated from the given source entity.
func (r *ReminderRepo) ListBySource(sourceKey string) ([]*model.ReminderRule, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var result []*model.ReminderRule
	for _, rule := range all {
		if rule.SourceKey == sourceKey {
			result = append(result, rule)
		}
	}
	return result, nil
}

// DeleteBySource removes all rules generated from the given source entity.
func (r *ReminderRepo) DeleteBySource(sourceKey string) error {
	rules, err := r.ListBySource(sourceKey)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if err := r.db.Delete(rule.Key); err != nil {
			return err
		}
	}
	return nil
}

// Update updates an existing rule.
func (r *ReminderRepo) Update(rule *model.ReminderRule) error {
	return r.db.Set(rule)
}

// Delete removes a rule by key.
func (r *ReminderRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// MarkComplete marks a rule as completed.
func (r *ReminderRepo) MarkComplete(key string) error {
	rule, err := r.Get(key)
	if err != nil {
		return err
	}

	rule.Completed = true
	rule.CompletedAt = time.Now()

	return r.db.Set(rule)
}

// Exists checks if a rule exists.
func (r *ReminderRepo) Exists(key string) (bool, error) {
	return r.db.Exists(key)
}
