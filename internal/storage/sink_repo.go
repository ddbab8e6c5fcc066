package storage

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
)

// SinkRepo provides operations for notification Sink entities.
type SinkRepo struct {
	db *DB
}

// NewSinkRepo creates a new sink repository.
func NewSinkRepo(db *DB) *SinkRepo {
	return &SinkRepo{db: db}
}

// Create creates a new sink.
func (r *SinkRepo) Create(sink *model.Sink) error {
	if sink.Key == "" {
		sink.Key = model.GenerateSinkKey(sink.Name)
	}
	if sink.CreatedAt.IsZero() {
		sink.CreatedAt = time.Now()
	}
	return r.db.Set(sink)
}

// Get retrieves a sink by name.
func (r *SinkRepo) Get(name string) (*model.Sink, error) {
	sink := &model.Sink{}
	key := model.GenerateSinkKey(name)
	if err := r.db.Get(key, sink); err != nil {
		return nil, err
	}
	return sink, nil
}

// List retrieves all sinks.
func (r *SinkRepo) List() ([]*model.Sink, error) {
	return GetAllByPrefix(r.db, model.PrefixSink+":", func() *model.Sink {
		return &model.Sink{}
	})
}

// ListEnabled retrieves all enabled sinks.
func (r *SinkRepo) ListEnabled() ([]*model.Sink, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var enabled []*model.Sink
	for _, sink := range all {
		if sink.IsEnabled() {
			enabled = append(enabled, sink)
		}
	}
	return enabled, nil
}

// Update updates an existing sink.
func (r *SinkRepo) Update(sink *model.Sink) error {
	return r.db.Set(sink)
}

// Delete removes a sink by name.
func (r *SinkRepo) Delete(name string) error {
	return r.db.Delete(model.GenerateSinkKey(name))
}

// Enable enables a sink.
func (r *SinkRepo) Enable(name string) error {
	sink, err := r.Get(name)
	if err != nil {
		return err
	}
	sink.Enabled = true
	return r.db.Set(sink)
}

// Disable disables a sink.
func (r *SinkRepo) Disable(name string) error {
	sink, err := r.Get(name)
	if err != nil {
		return err
	}
	sink.Enabled = false
	return r.db.Set(sink)
}

// UpdateLastUsed updates the last used timestamp and optionally the last error.
func (r *SinkRepo) UpdateLastUsed(name string, lastErr error) error {
	sink, err := r.Get(name)
	if err != nil {
		return err
	}

	sink.LastUsed = time.Now()
	if lastErr != nil {
		sink.LastError = lastErr.Error()
	} else {
		sink.LastError = ""
	}

	return r.db.Set(sink)
}

// Exists checks if a sink with the given name exists.
func (r *SinkRepo) Exists(name string) (bool, error) {
	return r.db.Exists(model.GenerateSinkKey(name))
}
