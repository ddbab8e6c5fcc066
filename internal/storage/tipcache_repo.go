package storage

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
)

// TipCacheRepo provides operations for cached generated content.
type TipCacheRepo struct {
	db *DB
}

// NewTipCacheRepo creates a new tip cache repository.
func NewTipCacheRepo(db *DB) *TipCacheRepo {
	return &TipCacheRepo{db: db}
}

// Get retrieves a cache entry, dropping it when older than ttl.
func (r *TipCacheRepo) Get(key string, ttl time.Duration) (*model.TipCache, error) {
	entry := &model.TipCache{}
	if err := r.db.Get(key, entry); err != nil {
		return nil, err
	}

	if entry.Expired(ttl, time.Now()) {
		_ = r.db.Delete(key)
		return nil, ErrKeyNotFound
	}
	return entry, nil
}

// Set stores content under the given cache key.
func (r *TipCacheRepo) Set(key, content string) error {
	return r.db.Set(&model.TipCache{
		Key:       key,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Purge removes all cached content.
func (r *TipCacheRepo) Purge() error {
	return r.db.DeleteByPrefix(model.PrefixTipCache + ":")
}
