package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/materna-cli/materna/internal/model"
)

// MedicationRepo provides operations for Medication entities.
type MedicationRepo struct {
	db *DB
}

// NewMedicationRepo creates a new medication repository.
func NewMedicationRepo(db *DB) *MedicationRepo {
	return &MedicationRepo{db: db}
}

// Create creates a new medication with a generated key.
func (r *MedicationRepo) Create(med *model.Medication) error {
	if med.Key == "" {
		med.Key = model.GenerateMedicationKey(uuid.New().String())
	}
	if med.CreatedAt.IsZero() {
		med.CreatedAt = time.Now()
	}
	return r.db.Set(med)
}

// Get retrieves a medication by key.
func (r *MedicationRepo) Get(key string) (*model.Medication, error) {
	med := &model.Medication{}
	if err := r.db.Get(key, med); err != nil {
		return nil, err
	}
	return med, nil
}

// GetByShortID retrieves a medication by short ID prefix match.
func (r *MedicationRepo) GetByShortID(shortID string) (*model.Medication, error) {
	meds, err := r.List()
	if err != nil {
		return nil, err
	}

	prefix := len(model.PrefixMedication) + 1
	var matches []*model.Medication
	for _, med := range meds {
		if len(med.Key) >= prefix+len(shortID) && med.Key[prefix:prefix+len(shortID)] == shortID {
			matches = append(matches, med)
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

// List retrieves all medications.
func (r *MedicationRepo) List() ([]*model.Medication, error) {
	return GetAllByPrefix(r.db, model.PrefixMedication+":", func() *model.Medication {
		return &model.Medication{}
	})
}

// ListActive retrieves medications whose course is running now.
func (r *MedicationRepo) ListActive(now time.Time) ([]*model.Medication, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var active []*model.Medication
	for _, med := range all {
		if med.IsActive(now) {
			active = append(active, med)
		}
	}
	return active, nil
}

// Update updates an existing medication.
func (r *MedicationRepo) Update(med *model.Medication) error {
	return r.db.Set(med)
}

// Delete removes a medication by key.
func (r *MedicationRepo) Delete(key string) error {
	return r.db.Delete(key)
}
