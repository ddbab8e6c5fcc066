package model

import (
	"fmt"
	"time"
)

// MealType identifies which meal of the day a record belongs to.
type MealType string

// Meal types.
const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// IsValidMealType checks if a meal type is valid.
func IsValidMealType(t MealType) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Meal is a single logged meal.
type Meal struct {
	Type  MealType  `json:"type"`
	Time  time.Time `json:"time"`
	Foods []string  `json:"foods"`
}

// DietRecord collects one day's meals plus an optional analysis produced
// by the tips provider.
type DietRecord struct {
	Key        string    `json:"key"`
	Date       string    `json:"date"` // "2006-01-02"
	Meals      []Meal    `json:"meals"`
	Analysis   string    `json:"analysis,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at,omitempty"`
}

// SetKey sets the database key for this record.
func (d *DietRecord) SetKey(key string) {
	d.Key = key
}

// GetKey returns the database key for this record.
func (d *DietRecord) GetKey() string {
	return d.Key
}

// AddMeal appends a meal to the day.
func (d *DietRecord) AddMeal(meal Meal) {
	d.Meals = append(d.Meals, meal)
}

// FoodSummary returns all foods logged for the day, in meal order.
func (d *DietRecord) FoodSummary() []string {
	var foods []string
	for _, m := range d.Meals {
		foods = append(foods, m.Foods...)
	}
	return foods
}

// GenerateDietKey generates the database key for a day's diet record.
func GenerateDietKey(day time.Time) string {
	return fmt.Sprintf("%s:%s", PrefixDiet, day.Format("2006-01-02"))
}

// NewDietRecord creates an empty record for the given day.
func NewDietRecord(day time.Time) *DietRecord {
	return &DietRecord{
		Key:  GenerateDietKey(day),
		Date: day.Format("2006-01-02"),
	}
}
