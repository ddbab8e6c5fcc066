package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenInMemory(t *testing.T) {
	db := setupTestDB(t)
	assert.Empty(t, db.Path())
	assert.NotNil(t, db.Badger())
}

// =============================================================================
// CRUD Tests
// =============================================================================

func TestSetGetDelete(t *testing.T) {
	db := setupTestDB(t)

	rule := model.NewIntervalRule(model.KindWater, "Drink water", 45, model.PriorityNormal)
	rule.SetKey("reminder:test-1")
	require.NoError(t, db.Set(rule))

	got := &model.ReminderRule{}
	require.NoError(t, db.Get("reminder:test-1", got))
	assert.Equal(t, "Drink water", got.Title)
	assert.Equal(t, "reminder:test-1", got.GetKey())

	exists, err := db.Exists("reminder:test-1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, db.Delete("reminder:test-1"))
	err = db.Get("reminder:test-1", &model.ReminderRule{})
	assert.True(t, IsErrKeyNotFound(err))
}

func TestGetMissingKey(t *testing.T) {
	db := setupTestDB(t)

	err := db.Get("reminder:missing", &model.ReminderRule{})
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.True(t, IsErrKeyNotFound(err))
	assert.False(t, IsErrKeyNotFound(fmt.Errorf("other")))
}

func TestListByPrefix(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		rule := model.NewIntervalRule(model.KindWater, "Rule", 45, model.PriorityNormal)
		rule.SetKey(fmt.Sprintf("reminder:%d", i))
		require.NoError(t, db.Set(rule))
	}

	keys, err := db.ListByPrefix("reminder:")
	require.NoError(t, err)
	assert.Len(t, keys, 3)

	require.NoError(t, db.DeleteByPrefix("reminder:"))
	keys, err = db.ListByPrefix("reminder:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSetRawGetRaw(t *testing.T) {
	db := setupTestDB(t)

	type blob struct {
		Name string `json:"name"`
	}

	require.NoError(t, db.SetRaw("raw:1", blob{Name: "x"}))

	var got blob
	require.NoError(t, db.GetRaw("raw:1", &got))
	assert.Equal(t, "x", got.Name)

	assert.True(t, IsErrKeyNotFound(db.GetRaw("raw:missing", &got)))
}

// =============================================================================
// ReminderRepo Tests
// =============================================================================

func TestReminderRepoCreateGeneratesKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	rule := model.NewIntervalRule(model.KindWater, "Drink water", 45, model.PriorityNormal)
	require.NoError(t, repo.Create(rule))

	assert.NotEmpty(t, rule.Key)
	assert.Contains(t, rule.Key, "reminder:")

	got, err := repo.Get(rule.Key)
	require.NoError(t, err)
	assert.Equal(t, rule.Title, got.Title)
}

func TestReminderRepoGetByShortID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	rule := model.NewIntervalRule(model.KindWater, "Drink water", 45, model.PriorityNormal)
	require.NoError(t, repo.Create(rule))

	got, err := repo.GetByShortID(rule.ShortID())
	require.NoError(t, err)
	assert.Equal(t, rule.Key, got.Key)

	_, err = repo.GetByShortID("zzzzzz")
	assert.True(t, IsErrKeyNotFound(err))
}

func TestReminderRepoGetByKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	builtin := model.NewIntervalRule(model.KindWater, "Drink water", 45, model.PriorityNormal)
	require.NoError(t, repo.Create(builtin))

	// Source-bound rules of the same kind are not returned
	sourced := model.NewClockRule(model.KindMedication, "Dose", []string{"08:00"}, model.PriorityUrgent)
	sourced.SourceKey = "medication:abc"
	require.NoError(t, repo.Create(sourced))

	got, err := repo.GetByKind(model.KindWater)
	require.NoError(t, err)
	assert.Equal(t, builtin.Key, got.Key)

	_, err = repo.GetByKind(model.KindNap)
	assert.True(t, IsErrKeyNotFound(err))
}

func TestReminderRepoListPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	active := model.NewIntervalRule(model.KindWater, "Active", 45, model.PriorityNormal)
	require.NoError(t, repo.Create(active))

	disabled := model.NewIntervalRule(model.KindPosture, "Disabled", 30, model.PrioritySuggested)
	disabled.Enabled = false
	require.NoError(t, repo.Create(disabled))

	completed := model.NewOneShotRule(model.KindEvent, "Done", time.Now(), model.RepeatOnce)
	completed.Completed = true
	require.NoError(t, repo.Create(completed))

	pending, err := repo.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, active.Key, pending[0].Key)
}

func TestReminderRepoSourceRules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	first := model.NewClockRule(model.KindMedication, "Dose", []string{"08:00"}, model.PriorityUrgent)
	first.SourceKey = "medication:abc"
	require.NoError(t, repo.Create(first))

	second := model.NewOneShotRule(model.KindEvent, "Checkup", time.Now().Add(time.Hour), model.RepeatOnce)
	second.SourceKey = "event:def"
	require.NoError(t, repo.Create(second))

	rules, err := repo.ListBySource("medication:abc")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, first.Key, rules[0].Key)

	require.NoError(t, repo.DeleteBySource("medication:abc"))

	rules, err = repo.ListBySource("medication:abc")
	require.NoError(t, err)
	assert.Empty(t, rules)

	// The other source's rule survives
	rules, err = repo.ListBySource("event:def")
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestReminderRepoMarkComplete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReminderRepo(db)

	rule := model.NewOneShotRule(model.KindEvent, "Checkup", time.Now().Add(time.Hour), model.RepeatOnce)
	require.NoError(t, repo.Create(rule))

	require.NoError(t, repo.MarkComplete(rule.Key))

	got, err := repo.Get(rule.Key)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.False(t, got.CompletedAt.IsZero())
}

// =============================================================================
// WaterRepo Tests
// =============================================================================

func TestWaterRepoDayTotal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWaterRepo(db)

	day := time.Date(2026, 8, 25, 9, 0, 0, 0, time.Local)

	for i, amount := range []int{250, 300, 200} {
		rec := &model.WaterRecord{Time: day.Add(time.Duration(i) * time.Hour), AmountML: amount}
		require.NoError(t, repo.Create(rec))
	}

	// A record on another day is not counted
	other := &model.WaterRecord{Time: day.AddDate(0, 0, 1), AmountML: 500}
	require.NoError(t, repo.Create(other))

	total, err := repo.DayTotal(day)
	require.NoError(t, err)
	assert.Equal(t, 750, total)

	records, err := repo.ListDay(day)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 250, records[0].AmountML) // oldest first
}

func TestWaterRepoDeleteLast(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWaterRepo(db)

	day := time.Date(2026, 8, 25, 9, 0, 0, 0, time.Local)

	first := &model.WaterRecord{Time: day, AmountML: 250}
	require.NoError(t, repo.Create(first))
	second := &model.WaterRecord{Time: day.Add(time.Hour), AmountML: 300}
	require.NoError(t, repo.Create(second))

	deleted, err := repo.DeleteLast(day)
	require.NoError(t, err)
	assert.Equal(t, 300, deleted.AmountML)

	total, err := repo.DayTotal(day)
	require.NoError(t, err)
	assert.Equal(t, 250, total)
}

func TestWaterRepoDeleteLastEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWaterRepo(db)

	_, err := repo.DeleteLast(time.Now())
	assert.True(t, IsErrKeyNotFound(err))
}

// =============================================================================
// SinkRepo Tests
// =============================================================================

func TestSinkRepoCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSinkRepo(db)

	sink := model.NewSink("phone", model.SinkTypeSlack, "https://hooks.slack.com/services/XXX")
	require.NoError(t, repo.Create(sink))

	got, err := repo.Get("phone")
	require.NoError(t, err)
	assert.Equal(t, model.SinkTypeSlack, got.Type)

	exists, err := repo.Exists("phone")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete("phone"))
	_, err = repo.Get("phone")
	assert.True(t, IsErrKeyNotFound(err))
}

func TestSinkRepoEnableDisable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSinkRepo(db)

	require.NoError(t, repo.Create(model.NewSink("a", model.SinkTypeGeneric, "https://a.example/hook")))
	require.NoError(t, repo.Create(model.NewSink("b", model.SinkTypeGeneric, "https://b.example/hook")))

	require.NoError(t, repo.Disable("a"))

	enabled, err := repo.ListEnabled()
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "b", enabled[0].Name)

	require.NoError(t, repo.Enable("a"))
	enabled, err = repo.ListEnabled()
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	assert.Error(t, repo.Enable("missing"))
}

func TestSinkRepoUpdateLastUsed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSinkRepo(db)

	require.NoError(t, repo.Create(model.NewSink("a", model.SinkTypeGeneric, "https://a.example/hook")))

	require.NoError(t, repo.UpdateLastUsed("a", fmt.Errorf("HTTP 500")))
	got, err := repo.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "HTTP 500", got.LastError)
	assert.False(t, got.LastUsed.IsZero())

	// A successful delivery clears the error
	require.NoError(t, repo.UpdateLastUsed("a", nil))
	got, err = repo.Get("a")
	require.NoError(t, err)
	assert.Empty(t, got.LastError)
}

// =============================================================================
// Settings / Profile Tests
// =============================================================================

func TestSettingsRepoCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 45, settings.Water.IntervalMinutes)
	assert.Equal(t, model.AIModeSmart, settings.AIMode)
}

func TestSettingsRepoRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get()
	require.NoError(t, err)

	settings.WaterTargetML = 2200
	settings.QuietStart = "22:00"
	settings.QuietEnd = "07:00"
	require.NoError(t, repo.Update(settings))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 2200, got.WaterTargetML)
	assert.Equal(t, "22:00", got.QuietStart)
	// Untouched fields keep their defaults
	assert.Equal(t, 3, got.EscalateEvery)
}

func TestProfileRepoCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepo(db)

	profile, err := repo.Get()
	require.NoError(t, err)
	assert.False(t, profile.Enabled)
	assert.Equal(t, "09:00", profile.DailyTipTime)

	profile.Enabled = true
	profile.LastPeriodDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.Update(profile))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.True(t, got.HasLMP())
}

// =============================================================================
// EventRepo Tests
// =============================================================================

func TestEventRepoCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepo(db)

	event := model.NewEvent("Checkup", time.Now().Add(48*time.Hour), model.RepeatOnce)
	require.NoError(t, repo.Create(event))
	assert.Contains(t, event.Key, "event:")

	got, err := repo.GetByShortID(event.ShortID())
	require.NoError(t, err)
	assert.Equal(t, event.Key, got.Key)

	got.Title = "Prenatal checkup"
	require.NoError(t, repo.Update(got))

	updated, err := repo.Get(event.Key)
	require.NoError(t, err)
	assert.Equal(t, "Prenatal checkup", updated.Title)

	require.NoError(t, repo.Delete(event.Key))
	_, err = repo.Get(event.Key)
	assert.True(t, IsErrKeyNotFound(err))
}

func TestEventRepoListCountdowns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepo(db)

	require.NoError(t, repo.Create(model.NewEvent("Checkup", time.Now().Add(time.Hour), model.RepeatOnce)))
	require.NoError(t, repo.Create(model.NewCountdown("Due date", time.Now().AddDate(0, 2, 0))))

	countdowns, err := repo.ListCountdowns()
	require.NoError(t, err)
	require.Len(t, countdowns, 1)
	assert.Equal(t, "Due date", countdowns[0].Title)
}

// =============================================================================
// MedicationRepo Tests
// =============================================================================

func TestMedicationRepoListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedicationRepo(db)

	now := time.Now()

	open := model.NewMedication("Folic acid", "400mcg", []string{"08:00"})
	require.NoError(t, repo.Create(open))

	finished := model.NewMedication("Antibiotic", "", []string{"08:00"})
	finished.StartDate = now.AddDate(0, 0, -10)
	finished.DurationDays = 7
	require.NoError(t, repo.Create(finished))

	active, err := repo.ListActive(now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Folic acid", active[0].Name)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// =============================================================================
// DietRepo Tests
// =============================================================================

func TestDietRepoAddMealAndAnalysis(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDietRepo(db)

	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)

	// Missing day returns an empty record
	record, err := repo.GetDay(day)
	require.NoError(t, err)
	assert.Empty(t, record.Meals)

	_, err = repo.AddMeal(day, model.Meal{Type: model.MealBreakfast, Time: time.Now(), Foods: []string{"oatmeal"}})
	require.NoError(t, err)
	record, err = repo.AddMeal(day, model.Meal{Type: model.MealLunch, Time: time.Now(), Foods: []string{"salad", "rice"}})
	require.NoError(t, err)
	assert.Len(t, record.Meals, 2)

	require.NoError(t, repo.SetAnalysis(day, "Plenty of fiber, add some protein."))

	record, err = repo.GetDay(day)
	require.NoError(t, err)
	assert.Equal(t, "Plenty of fiber, add some protein.", record.Analysis)
	assert.False(t, record.AnalyzedAt.IsZero())
	assert.Equal(t, []string{"oatmeal", "salad", "rice"}, record.FoodSummary())
}

// =============================================================================
// TipCacheRepo Tests
// =============================================================================

func TestTipCacheRepoTTL(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTipCacheRepo(db)

	key := model.TipCacheWeekKey("nutrition", 12)
	require.NoError(t, repo.Set(key, "eat your greens"))

	entry, err := repo.Get(key, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "eat your greens", entry.Content)

	// Zero TTL treats everything as expired
	_, err = repo.Get(key, 0)
	assert.Error(t, err)

	_, err = repo.Get("tipcache:missing", 24*time.Hour)
	assert.True(t, IsErrKeyNotFound(err))
}

func TestTipCacheRepoPurge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTipCacheRepo(db)

	require.NoError(t, repo.Set(model.TipCacheWeekKey("nutrition", 12), "a"))
	require.NoError(t, repo.Set(model.TipCacheDateKey("daily_tips", time.Now()), "b"))

	require.NoError(t, repo.Purge())

	_, err := repo.Get(model.TipCacheWeekKey("nutrition", 12), 24*time.Hour)
	assert.True(t, IsErrKeyNotFound(err))
}
