package model

import (
	"fmt"
	"time"
)

// WaterRecord is a single logged drink.
type WaterRecord struct {
	Key      string    `json:"key"`
	Time     time.Time `json:"time"`
	AmountML int       `json:"amount_ml" validate:"required,min=1"`
	Note     string    `json:"note,omitempty"`
}

// SetKey sets the database key for this record.
func (w *WaterRecord) SetKey(key string) {
	w.Key = key
}

// GetKey returns the database key for this record.
func (w *WaterRecord) GetKey() string {
	return w.Key
}

// SameDay reports whether the record belongs to the given day.
func (w *WaterRecord) SameDay(day time.Time) bool {
	y1, m1, d1 := w.Time.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// GenerateWaterKey generates a database key for a water record. Keys embed
// the day so a day's records share a scan prefix.
func GenerateWaterKey(t time.Time, uuid string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixWater, t.Format("2006-01-02"), uuid)
}

// WaterDayPrefix returns the key prefix for all records of a day.
func WaterDayPrefix(day time.Time) string {
	return fmt.Sprintf("%s:%s:", PrefixWater, day.Format("2006-01-02"))
}

// NewWaterRecord creates a water record for now.
func NewWaterRecord(amountML int, note string) *WaterRecord {
	return &WaterRecord{
		Time:     time.Now(),
		AmountML: amountML,
		Note:     note,
	}
}
