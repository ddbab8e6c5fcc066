package output

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/pregnancy"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
	})
}

// RuleOutput represents a reminder rule in JSON output.
type RuleOutput struct {
	ID              string   `json:"id"`
	Kind            string   `json:"kind"`
	Title           string   `json:"title"`
	Priority        string   `json:"priority"`
	Enabled         bool     `json:"enabled"`
	IntervalMinutes int      `json:"interval_minutes,omitempty"`
	ClockTimes      []string `json:"clock_times,omitempty"`
	At              string   `json:"at,omitempty"`
	Repeat          string   `json:"repeat,omitempty"`
	WindowStart     string   `json:"window_start,omitempty"`
	WindowEnd       string   `json:"window_end,omitempty"`
	NextFire        string   `json:"next_fire,omitempty"`
	SnoozedUntil    string   `json:"snoozed_until,omitempty"`
	UnackedFires    int      `json:"unacked_fires,omitempty"`
	Completed       bool     `json:"completed"`
}

// NewRuleOutput creates a RuleOutput from a ReminderRule.
func NewRuleOutput(r *model.ReminderRule) *RuleOutput {
	out := &RuleOutput{
		ID:              r.ShortID(),
		Kind:            string(r.Kind),
		Title:           r.Title,
		Priority:        r.Priority.Label(),
		Enabled:         r.Enabled,
		IntervalMinutes: r.IntervalMinutes,
		ClockTimes:      r.ClockTimes,
		Repeat:          string(r.Repeat),
		WindowStart:     r.WindowStart,
		WindowEnd:       r.WindowEnd,
		UnackedFires:    r.UnackedFires,
		Completed:       r.Completed,
	}
	if !r.At.IsZero() {
		out.At = r.At.Format(time.RFC3339)
	}
	if !r.NextFire.IsZero() {
		out.NextFire = r.NextFire.Format(time.RFC3339)
	}
	if !r.SnoozedUntil.IsZero() {
		out.SnoozedUntil = r.SnoozedUntil.Format(time.RFC3339)
	}
	return out
}

// RulesResponse represents the rule list output in JSON.
type RulesResponse struct {
	Rules []*RuleOutput `json:"rules"`
	Count int           `json:"count"`
}

// PrintRules outputs rules in JSON format.
func (j *JSONFormatter) PrintRules(rules []*model.ReminderRule) error {
	outputs := make([]*RuleOutput, len(rules))
	for i, r := range rules {
		outputs[i] = NewRuleOutput(r)
	}
	return j.JSON(RulesResponse{Rules: outputs, Count: len(outputs)})
}

// WaterStatusResponse represents the hydration status in JSON.
type WaterStatusResponse struct {
	Date     string         `json:"date"`
	TotalML  int            `json:"total_ml"`
	TargetML int            `json:"target_ml"`
	Percent  float64        `json:"percent"`
	Records  []*WaterOutput `json:"records,omitempty"`
}

// WaterOutput represents a single water record in JSON.
type WaterOutput struct {
	AmountML int    `json:"amount_ml"`
	Time     string `json:"time"`
	Note     string `json:"note,omitempty"`
}

// NewWaterStatusResponse builds the hydration status output.
func NewWaterStatusResponse(day time.Time, records []*model.WaterRecord, targetML int) *WaterStatusResponse {
	resp := &WaterStatusResponse{
		Date:     day.Format("2006-01-02"),
		TargetML: targetML,
	}
	for _, rec := range records {
		resp.TotalML += rec.AmountML
		resp.Records = append(resp.Records, &WaterOutput{
			AmountML: rec.AmountML,
			Time:     rec.Time.Format("15:04"),
			Note:     rec.Note,
		})
	}
	if targetML > 0 {
		resp.Percent = float64(resp.TotalML) / float64(targetML) * 100
	}
	return resp
}

// EventOutput represents an event in JSON output.
type EventOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	RemindAt    string `json:"remind_at,omitempty"`
	Repeat      string `json:"repeat"`
	IsCountdown bool   `json:"is_countdown"`
	TargetDate  string `json:"target_date,omitempty"`
	DaysLeft    int    `json:"days_left,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// NewEventOutput creates an EventOutput from an Event.
func NewEventOutput(e *model.Event, now time.Time) *EventOutput {
	out := &EventOutput{
		ID:          e.ShortID(),
		Title:       e.Title,
		Description: e.Description,
		Repeat:      string(e.Repeat),
		IsCountdown: e.IsCountdown,
		Enabled:     e.Enabled,
	}
	if !e.RemindAt.IsZero() {
		out.RemindAt = e.RemindAt.Format(time.RFC3339)
	}
	if !e.TargetDate.IsZero() {
		out.TargetDate = e.TargetDate.Format("2006-01-02")
		out.DaysLeft = e.DaysUntilTarget(now)
	}
	return out
}

// MedicationOutput represents a medication in JSON output.
type MedicationOutput struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage,omitempty"`
	Times        []string `json:"times"`
	StartDate    string   `json:"start_date,omitempty"`
	DurationDays int      `json:"duration_days,omitempty"`
	Active       bool     `json:"active"`
}

// NewMedicationOutput creates a MedicationOutput from a Medication.
func NewMedicationOutput(m *model.Medication, now time.Time) *MedicationOutput {
	out := &MedicationOutput{
		ID:           m.ShortID(),
		Name:         m.Name,
		Dosage:       m.Dosage,
		Times:        m.Times,
		DurationDays: m.DurationDays,
		Active:       m.IsActive(now),
	}
	if !m.StartDate.IsZero() {
		out.StartDate = m.StartDate.Format("2006-01-02")
	}
	return out
}

// PregnancyResponse represents the pregnancy status in JSON.
type PregnancyResponse struct {
	Week         int    `json:"week"`
	Day          int    `json:"day"`
	Display      string `json:"display"`
	Trimester    int    `json:"trimester"`
	DueDate      string `json:"due_date"`
	DaysUntilDue int    `json:"days_until_due"`
	Overdue      bool   `json:"overdue"`
	Development  string `json:"development,omitempty"`
}

// NewPregnancyResponse builds the pregnancy status output.
func NewPregnancyResponse(status pregnancy.Status) *PregnancyResponse {
	return &PregnancyResponse{
		Week:         status.Week,
		Day:          status.Day,
		Display:      status.Display(),
		Trimester:    status.Trimester,
		DueDate:      status.DueDate.Format("2006-01-02"),
		DaysUntilDue: status.DaysUntilDue,
		Overdue:      status.Overdue,
		Development:  pregnancy.DevelopmentStage(status.Week),
	}
}
