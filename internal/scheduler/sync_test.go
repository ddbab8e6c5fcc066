package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

func TestSyncMaterializesDefaultRules(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)

	require.NoError(t, engine.Sync(at(10, 0)))

	for _, kind := range []model.ReminderKind{
		model.KindWater, model.KindStandUp, model.KindEyeRest, model.KindPosture,
		model.KindNutrition, model.KindRelaxation, model.KindNap,
	} {
		rule, err := repo.GetByKind(kind)
		require.NoError(t, err, "expected a rule for kind %s", kind)
		assert.True(t, rule.Enabled)
	}

	// Pregnancy-anchored kinds need a usable profile
	_, err := repo.GetByKind(model.KindFetalMovement)
	assert.Error(t, err)
	_, err = repo.GetByKind(model.KindPregnancyTip)
	assert.Error(t, err)
}

func TestSyncIsIdempotent(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)

	require.NoError(t, engine.Sync(at(10, 0)))
	first, err := repo.List()
	require.NoError(t, err)

	require.NoError(t, engine.Sync(at(10, 5)))
	second, err := repo.List()
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
}

func TestSyncCreatesPregnancyRulesWithProfile(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)
	profileRepo := storage.NewProfileRepo(db)

	profile, err := profileRepo.Get()
	require.NoError(t, err)
	profile.Enabled = true
	profile.LastPeriodDate = at(10, 0).AddDate(0, 0, -140) // 20 weeks
	require.NoError(t, profileRepo.Update(profile))

	require.NoError(t, engine.Sync(at(10, 0)))

	fetal, err := repo.GetByKind(model.KindFetalMovement)
	require.NoError(t, err)
	assert.Equal(t, 18, fetal.MinWeek)
	assert.Equal(t, model.PriorityImportant, fetal.Priority)

	tip, err := repo.GetByKind(model.KindPregnancyTip)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, tip.ClockTimes)
}

func TestSyncAppliesSettingsChanges(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)

	require.NoError(t, engine.Sync(at(10, 0)))

	settings, err := settingsRepo.Get()
	require.NoError(t, err)
	settings.Water.IntervalMinutes = 60
	settings.Posture.Enabled = false
	require.NoError(t, settingsRepo.Update(settings))

	require.NoError(t, engine.Sync(at(10, 5)))

	water, err := repo.GetByKind(model.KindWater)
	require.NoError(t, err)
	assert.Equal(t, 60, water.IntervalMinutes)
	assert.True(t, water.NextFire.IsZero()) // re-anchors on next tick

	posture, err := repo.GetByKind(model.KindPosture)
	require.NoError(t, err)
	assert.False(t, posture.Enabled)
}

func TestSyncMedicationRules(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)
	medRepo := storage.NewMedicationRepo(db)

	now := at(10, 0)
	med := model.NewMedication("Folic acid", "400mcg", []string{"08:00"})
	require.NoError(t, medRepo.Create(med))

	require.NoError(t, engine.Sync(now))

	rules, err := repo.ListBySource(med.Key)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, model.KindMedication, rules[0].Kind)
	assert.Equal(t, model.PriorityUrgent, rules[0].Priority)
	assert.Equal(t, []string{"08:00"}, rules[0].ClockTimes)
	assert.Contains(t, rules[0].Message, "Folic acid")

	// Changing the dose times updates the rule in place
	med.Times = []string{"08:00", "20:00"}
	require.NoError(t, medRepo.Update(med))
	require.NoError(t, engine.Sync(now))

	rules, err = repo.ListBySource(med.Key)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"08:00", "20:00"}, rules[0].ClockTimes)

	// Deleting the medication prunes its rule
	require.NoError(t, medRepo.Delete(med.Key))
	require.NoError(t, engine.Sync(now))

	rules, err = repo.ListBySource(med.Key)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestSyncExpiredMedicationPruned(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)
	medRepo := storage.NewMedicationRepo(db)

	now := at(10, 0)
	med := model.NewMedication("Antibiotic", "", []string{"08:00"})
	med.StartDate = now.AddDate(0, 0, -10)
	med.DurationDays = 7
	require.NoError(t, medRepo.Create(med))

	require.NoError(t, engine.Sync(now))

	rules, err := repo.ListBySource(med.Key)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestSyncEventRules(t *testing.T) {
	engine, db := setupEngine(t)
	repo := storage.NewReminderRepo(db)
	eventRepo := storage.NewEventRepo(db)

	now := at(10, 0)
	event := model.NewEvent("Prenatal checkup", now.Add(48*time.Hour), model.RepeatOnce)
	require.NoError(t, eventRepo.Create(event))

	countdown := model.NewCountdown("Due date", now.AddDate(0, 2, 0))
	require.NoError(t, eventRepo.Create(countdown))

	require.NoError(t, engine.Sync(now))

	rules, err := repo.ListBySource(event.Key)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, model.KindEvent, rules[0].Kind)
	assert.True(t, rules[0].At.Equal(event.RemindAt))
	assert.Equal(t, "Prenatal checkup", rules[0].Title)

	// Countdowns are display-only
	countdownRules, err := repo.ListBySource(countdown.Key)
	require.NoError(t, err)
	assert.Empty(t, countdownRules)

	// Rescheduling the event resets the rule
	event.RemindAt = now.Add(72 * time.Hour)
	require.NoError(t, eventRepo.Update(event))
	require.NoError(t, engine.Sync(now))

	rules, err = repo.ListBySource(event.Key)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].At.Equal(event.RemindAt))
	assert.True(t, rules[0].NextFire.IsZero())

	// Deleting the event prunes the rule
	require.NoError(t, eventRepo.Delete(event.Key))
	require.NoError(t, engine.Sync(now))

	rules, err = repo.ListBySource(event.Key)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
