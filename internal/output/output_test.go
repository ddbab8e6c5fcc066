package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h 30m"},
		{25 * time.Hour, "25h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d), tt.want)
	}
}

func TestFormatTimeHelpers(t *testing.T) {
	ts := time.Date(2026, 8, 25, 14, 30, 45, 0, time.Local)

	assert.Equal(t, "2026-08-25 14:30:45", FormatTime(ts))
	assert.Equal(t, "2026-08-25 14:30", FormatTimeShort(ts))
	assert.Equal(t, "2026-08-25", FormatDate(ts))
	assert.Equal(t, "14:30", FormatTimeOnly(ts))
}

func TestFormatterWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter()
	f.Writer = &buf

	f.Println("hello")
	f.Printf("total: %d\n", 3)

	assert.Equal(t, "hello\ntotal: 3\n", buf.String())
}

func TestFormatterColorMode(t *testing.T) {
	f := NewFormatter()
	f.Writer = &bytes.Buffer{}

	f.ColorMode = ColorAlways
	assert.True(t, f.IsColorEnabled())

	f.ColorMode = ColorNever
	assert.False(t, f.IsColorEnabled())

	// Auto with a plain buffer is not a terminal
	f.ColorMode = ColorAuto
	assert.False(t, f.IsColorEnabled())
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter()
	f.Writer = &buf

	require.NoError(t, f.JSON(map[string]int{"count": 2}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded["count"])
}

func TestCLIFormatterPrintTable(t *testing.T) {
	t.Run("with_rows", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter()
		f.Writer = &buf
		f.ColorMode = ColorNever
		cli := NewCLIFormatter(f)

		headers := []string{"ID", "Title"}
		rows := []TableRow{
			{Columns: []string{"a1b2c3d4", "Drink water"}},
			{Columns: []string{"e5f6a7b8", "Prenatal checkup"}},
		}

		cli.PrintTable(headers, rows)
		out := buf.String()

		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "Title")
		assert.Contains(t, out, "Drink water")
		assert.Contains(t, out, "Prenatal checkup")
		assert.Contains(t, out, "─")
	})

	t.Run("empty_rows", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter()
		f.Writer = &buf
		cli := NewCLIFormatter(f)

		cli.PrintTable([]string{"ID"}, []TableRow{})
		assert.Empty(t, buf.String())
	})
}

func TestNewRuleOutput(t *testing.T) {
	rule := model.NewIntervalRule(model.KindWater, "Water", 45, model.PriorityNormal)
	rule.WindowStart = "09:00"
	rule.WindowEnd = "18:00"
	rule.NextFire = time.Date(2026, 8, 25, 10, 0, 0, 0, time.Local)
	rule.UnackedFires = 2

	out := NewRuleOutput(rule)
	assert.Equal(t, rule.ShortID(), out.ID)
	assert.Equal(t, "water", out.Kind)
	assert.Equal(t, 45, out.IntervalMinutes)
	assert.Equal(t, "09:00", out.WindowStart)
	assert.Equal(t, rule.NextFire.Format(time.RFC3339), out.NextFire)
	assert.Equal(t, 2, out.UnackedFires)
	assert.Empty(t, out.At)
	assert.Empty(t, out.SnoozedUntil)
}

func TestNewWaterStatusResponse(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)
	records := []*model.WaterRecord{
		{AmountML: 250, Time: day.Add(9 * time.Hour)},
		{AmountML: 500, Time: day.Add(12 * time.Hour), Note: "lunch"},
	}

	resp := NewWaterStatusResponse(day, records, 1500)
	assert.Equal(t, "2026-08-25", resp.Date)
	assert.Equal(t, 750, resp.TotalML)
	assert.Equal(t, 1500, resp.TargetML)
	assert.InDelta(t, 50.0, resp.Percent, 0.001)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "09:00", resp.Records[0].Time)
	assert.Equal(t, "lunch", resp.Records[1].Note)
}

func TestNewWaterStatusResponseZeroTarget(t *testing.T) {
	resp := NewWaterStatusResponse(time.Now(), nil, 0)
	assert.Zero(t, resp.Percent)
	assert.Zero(t, resp.TotalML)
}

func TestNewEventOutput(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.Local)

	event := model.NewEvent("Checkup", now.Add(48*time.Hour), model.RepeatOnce)
	out := NewEventOutput(event, now)
	assert.Equal(t, "Checkup", out.Title)
	assert.False(t, out.IsCountdown)
	assert.NotEmpty(t, out.RemindAt)
	assert.Empty(t, out.TargetDate)

	countdown := model.NewCountdown("Due date", now.AddDate(0, 0, 30))
	out = NewEventOutput(countdown, now)
	assert.True(t, out.IsCountdown)
	assert.Empty(t, out.RemindAt)
	assert.Equal(t, 30, out.DaysLeft)
}

func TestNewMedicationOutput(t *testing.T) {
	now := time.Now()
	med := model.NewMedication("Iron", "65mg", []string{"08:00", "20:00"})

	out := NewMedicationOutput(med, now)
	assert.Equal(t, "Iron", out.Name)
	assert.Equal(t, "65mg", out.Dosage)
	assert.Equal(t, []string{"08:00", "20:00"}, out.Times)
	assert.True(t, out.Active)
}

func TestJSONFormatterPrintError(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter()
	f.Writer = &buf

	j := NewJSONFormatter(f)
	require.NoError(t, j.PrintError("error", "not found", "use a valid id"))

	var decoded ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "error", decoded.Status)
	assert.Equal(t, "not found", decoded.Error)
}
