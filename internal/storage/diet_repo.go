package storage

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
)

// DietRepo provides operations for daily DietRecord entities.
type DietRepo struct {
	db *DB
}

// NewDietRepo creates a new diet repository.
func NewDietRepo(db *DB) *DietRepo {
	return &DietRepo{db: db}
}

// GetDay retrieves the record for a day, creating an empty one if missing.
func (r *DietRepo) GetDay(day time.Time) (*model.DietRecord, error) {
	rec := &model.DietRecord{}
	err := r.db.Get(model.GenerateDietKey(day), rec)
	if err == nil {
		return rec, nil
	}
	if !IsErrKeyNotFound(err) {
		return nil, err
	}
	return model.NewDietRecord(day), nil
}

// AddMeal appends a meal to the day's record and persists it.
func (r *DietRepo) AddMeal(day time.Time, meal model.Meal) (*model.DietRecord, error) {
	rec, err := r.GetDay(day)
	if err != nil {
		return nil, err
	}
	rec.AddMeal(meal)
	if err := r.db.Set(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetAnalysis attaches an analysis to the day's record.
func (r *DietRepo) SetAnalysis(day time.Time, analysis string) error {
	rec, err := r.GetDay(day)
	if err != nil {
		return err
	}
	rec.Analysis = analysis
	rec.AnalyzedAt = time.Now()
	return r.db.Set(rec)
}

// List retrieves all diet records.
func (r *DietRepo) List() ([]*model.DietRecord, error) {
	return GetAllByPrefix(r.db, model.PrefixDiet+":", func() *model.DietRecord {
		return &model.DietRecord{}
	})
}

// Update persists an existing record.
func (r *DietRepo) Update(rec *model.DietRecord) error {
	return r.db.Set(rec)
}
