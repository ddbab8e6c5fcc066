// Package pregnancy implements week, trimester, and due-date math anchored
// on the last menstrual period date.
package pregnancy

import (
	"fmt"
	"time"
)

// Gestation constants.
const (
	// TermDays is the conventional pregnancy length from LMP.
	TermDays = 280
	// FullTermWeek is the last scheduled week.
	FullTermWeek = 40
)

// Trimester boundaries, inclusive weeks.
const (
	firstTrimesterEnd  = 13
	secondTrimesterEnd = 27
)

// Status describes the pregnancy at a point in time.
type Status struct {
	Week         int       `json:"week"`
	Day          int       `json:"day"` // days into the current week, 0-6
	Trimester    int       `json:"trimester"`
	DueDate      time.Time `json:"due_date"`
	DaysUntilDue int       `json:"days_until_due"`
	Overdue      bool      `json:"overdue"`
}

// Display returns the conventional "12w+3d" rendering.
func (s Status) Display() string {
	if s.Day == 0 {
		return fmt.Sprintf("%dw", s.Week)
	}
	return fmt.Sprintf("%dw+%dd", s.Week, s.Day)
}

// TrimesterName returns the English trimester name.
func (s Status) TrimesterName() string {
	switch s.Trimester {
	case 1:
		return "first trimester"
	case 2:
		return "second trimester"
	case 3:
		return "third trimester"
	default:
		return ""
	}
}

// WeekAt returns the completed weeks and remainder days since LMP.
func WeekAt(lmp, now time.Time) (week, day int) {
	days := daysBetween(lmp, now)
	if days < 0 {
		return 0, 0
	}
	return days / 7, days % 7
}

// DueDate returns LMP + 280 days.
func DueDate(lmp time.Time) time.Time {
	return lmp.AddDate(0, 0, TermDays)
}

// TrimesterOf returns 1, 2, or 3 for the given week. Weeks past full term
// count as the third trimester; week 0 counts as the first.
func TrimesterOf(week int) int {
	switch {
	case week <= firstTrimesterEnd:
		return 1
	case week <= secondTrimesterEnd:
		return 2
	default:
		return 3
	}
}

// StatusAt computes the full status for the given LMP and reference time.
func StatusAt(lmp, now time.Time) Status {
	week, day := WeekAt(lmp, now)
	due := DueDate(lmp)
	untilDue := daysBetween(now, due)

	return Status{
		Week:         week,
		Day:          day,
		Trimester:    TrimesterOf(week),
		DueDate:      due,
		DaysUntilDue: untilDue,
		Overdue:      untilDue < 0,
	}
}

// developmentStages maps inclusive week bands to a short description.
var developmentStages = []struct {
	from, to int
	desc     string
}{
	{1, 4, "The fertilized egg is dividing and implanting"},
	{5, 8, "Embryonic stage; the heart starts beating"},
	{9, 12, "Fetal stage begins; organs are forming"},
	{13, 16, "Rapid growth; first movements may be felt soon"},
	{17, 20, "Movements become more noticeable"},
	{21, 24, "Hearing develops; the baby responds to sounds"},
	{25, 28, "The eyes can open"},
	{29, 32, "Weight gain accelerates"},
	{33, 36, "Organs are nearly mature"},
	{37, 40, "Full term; birth can happen any time"},
}

// DevelopmentStage returns a short description of fetal development for
// the given week, or an empty string before week 1.
func DevelopmentStage(week int) string {
	for _, stage := range developmentStages {
		if week >= stage.from && week <= stage.to {
			return stage.desc
		}
	}
	if week > FullTermWeek {
		return "Past the due date; keep up with prenatal checkups"
	}
	return ""
}

// daysBetween returns whole calendar days from a to b in a's location.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, a.Location())
	return int(bd.Sub(ad).Hours() / 24)
}

// Season returns the northern-hemisphere season name for a time, used to
// season-flavor generated tips.
func Season(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}
