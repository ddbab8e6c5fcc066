package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/materna-cli/materna/internal/model"
)

// WaterRepo provides operations for WaterRecord entities.
type WaterRepo struct {
	db *DB
}

// NewWaterRepo creates a new water repository.
func NewWaterRepo(db *DB) *WaterRepo {
	return &WaterRepo{db: db}
}

// Create creates a new water record with a generated key.
func (r *WaterRepo) Create(rec *model.WaterRecord) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	if rec.Key == "" {
		rec.Key = model.GenerateWaterKey(rec.Time, uuid.New().String())
	}
	return r.db.Set(rec)
}

// ListDay retrieves all records for a day, oldest first.
func (r *WaterRepo) ListDay(day time.Time) ([]*model.WaterRecord, error) {
	records, err := GetAllByPrefix(r.db, model.WaterDayPrefix(day), func() *model.WaterRecord {
		return &model.WaterRecord{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
	return records, nil
}

// DayTotal returns the total intake for a day in milliliters.
func (r *WaterRepo) DayTotal(day time.Time) (int, error) {
	records, err := r.ListDay(day)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, rec := range records {
		total += rec.AmountML
	}
	return total, nil
}

// DeleteLast removes the most recent record of a day and returns it.
func (r *WaterRepo) DeleteLast(day time.Time) (*model.WaterRecord, error) {
	records, err := r.ListDay(day)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrKeyNotFound
	}

	last := records[len(records)-1]
	if err := r.db.Delete(last.Key); err != nil {
		return nil, err
	}
	return last, nil
}

// Delete removes a water record by key.
func (r *WaterRepo) Delete(key string) error {
	return r.db.Delete(key)
}
