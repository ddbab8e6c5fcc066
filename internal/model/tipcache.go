package model

import (
	"fmt"
	"time"
)

// TipCache is one cached piece of generated content. Entries are grouped
// by ISO date or by pregnancy week depending on the content type, with a
// per-type TTL.
type TipCache struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this cache entry.
func (t *TipCache) SetKey(key string) {
	t.Key = key
}

// GetKey returns the database key for this cache entry.
func (t *TipCache) GetKey() string {
	return t.Key
}

// Expired reports whether the entry is older than ttl.
func (t *TipCache) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return true
	}
	return now.After(t.CreatedAt.Add(ttl))
}

// TipCacheDateKey builds a cache key grouped by day.
func TipCacheDateKey(contentType string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", PrefixTipCache, contentType, day.Format("2006-01-02"))
}

// TipCacheWeekKey builds a cache key grouped by pregnancy week.
func TipCacheWeekKey(contentType string, week int) string {
	return fmt.Sprintf("%s:%s:week-%d", PrefixTipCache, contentType, week)
}
