package scheduler

import (
	"strings"
	"time"

	"github.com/materna-cli/materna/internal/logging"
	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

// Sync materializes reminder rules from settings, the pregnancy profile,
// medications, and events. It is idempotent and runs at startup and on a
// slow cadence so edits made through the CLI take effect without a restart.
func (e *Engine) Sync(now time.Time) error {
	settings, err := e.settings.Get()
	if err != nil {
		return err
	}

	profile, err := e.profile.Get()
	if err != nil {
		return err
	}

	e.syncIntervalKind(model.KindWater, settings.Water, model.PriorityNormal)
	e.syncIntervalKind(model.KindStandUp, settings.StandUp, model.PriorityNormal)
	e.syncIntervalKind(model.KindEyeRest, settings.EyeRest, model.PriorityNormal)
	e.syncIntervalKind(model.KindPosture, settings.Posture, model.PrioritySuggested)

	e.syncClockKind(model.KindNutrition, settings.Nutrition, model.PriorityImportant, 0)
	e.syncClockKind(model.KindRelaxation, settings.Relaxation, model.PrioritySuggested, 0)
	e.syncClockKind(model.KindNap, settings.Nap, model.PrioritySuggested, 0)

	// Pregnancy-anchored rules only exist with a usable profile
	tracking := profile.Enabled && profile.HasLMP()
	e.syncClockKind(model.KindFetalMovement, gated(settings.FetalMovement, tracking), model.PriorityImportant, settings.FetalMovementWk)
	e.syncClockKind(model.KindPregnancyTip, gated(model.ClockSetting{
		Enabled: true,
		Times:   []string{profile.DailyTipTime},
	}, tracking), model.PriorityNormal, 0)

	if err := e.syncMedications(now); err != nil {
		return err
	}
	return e.syncEvents(now)
}

// gated disables a clock setting when its precondition does not hold.
func gated(setting model.ClockSetting, ok bool) model.ClockSetting {
	if !ok {
		setting.Enabled = false
	}
	return setting
}

// syncIntervalKind reconciles the built-in rule for an interval kind.
func (e *Engine) syncIntervalKind(kind model.ReminderKind, setting model.IntervalSetting, priority model.Priority) {
	rule, err := e.reminders.GetByKind(kind)
	if storage.IsErrKeyNotFound(err) {
		if !setting.Enabled {
			return
		}
		rule = model.NewIntervalRule(kind, defaultTitle(kind), setting.IntervalMinutes, priority)
		rule.WindowStart = setting.WindowStart
		rule.WindowEnd = setting.WindowEnd
		if err := e.reminders.Create(rule); err != nil {
			logging.Error("failed to create rule", logging.KeyKind, string(kind), logging.KeyError, err)
		}
		return
	}
	if err != nil {
		logging.Error("failed to load rule", logging.KeyKind, string(kind), logging.KeyError, err)
		return
	}

	changed := rule.Enabled != setting.Enabled ||
		rule.IntervalMinutes != setting.IntervalMinutes ||
		rule.WindowStart != setting.WindowStart ||
		rule.WindowEnd != setting.WindowEnd

	if !changed {
		return
	}

	rule.Enabled = setting.Enabled
	rule.IntervalMinutes = setting.IntervalMinutes
	rule.WindowStart = setting.WindowStart
	rule.WindowEnd = setting.WindowEnd
	rule.NextFire = time.Time{} // re-anchor on next tick
	e.save(rule)
}

// syncClockKind reconciles the built-in rule for a clock-time kind.
func (e *Engine) syncClockKind(kind model.ReminderKind, setting model.ClockSetting, priority model.Priority, minWeek int) {
	rule, err := e.reminders.GetByKind(kind)
	if storage.IsErrKeyNotFound(err) {
		if !setting.Enabled || len(setting.Times) == 0 {
			return
		}
		rule = model.NewClockRule(kind, defaultTitle(kind), setting.Times, priority)
		rule.WorkdaysOnly = setting.WorkdaysOnly
		rule.MinWeek = minWeek
		if err := e.reminders.Create(rule); err != nil {
			logging.Error("failed to create rule", logging.KeyKind, string(kind), logging.KeyError, err)
		}
		return
	}
	if err != nil {
		logging.Error("failed to load rule", logging.KeyKind, string(kind), logging.KeyError, err)
		return
	}

	changed := rule.Enabled != setting.Enabled ||
		rule.WorkdaysOnly != setting.WorkdaysOnly ||
		rule.MinWeek != minWeek ||
		!sameTimes(rule.ClockTimes, setting.Times)

	if !changed {
		return
	}

	rule.Enabled = setting.Enabled
	rule.ClockTimes = setting.Times
	rule.WorkdaysOnly = setting.WorkdaysOnly
	rule.MinWeek = minWeek
	rule.NextFire = time.Time{}
	e.save(rule)
}

// syncMedications reconciles one clock rule per active medication.
func (e *Engine) syncMedications(now time.Time) error {
	meds, err := e.meds.List()
	if err != nil {
		return err
	}

	active := make(map[string]bool)
	for _, med := range meds {
		if !med.IsActive(now) {
			continue
		}
		active[med.Key] = true

		rules, err := e.reminders.ListBySource(med.Key)
		if err != nil {
			return err
		}

		if len(rules) == 0 {
			rule := model.NewClockRule(model.KindMedication, defaultTitle(model.KindMedication), med.Times, model.PriorityUrgent)
			rule.Message = med.ReminderMessage()
			rule.SourceKey = med.Key
			if err := e.reminders.Create(rule); err != nil {
				return err
			}
			continue
		}

		rule := rules[0]
		if sameTimes(rule.ClockTimes, med.Times) && rule.Message == med.ReminderMessage() {
			continue
		}
		rule.ClockTimes = med.Times
		rule.Message = med.ReminderMessage()
		rule.NextFire = time.Time{}
		e.save(rule)
	}

	// Drop rules whose medication expired or was deleted
	return e.pruneSourceRules(model.PrefixMedication, active)
}

// syncEvents reconciles one one-shot rule per schedulable event.
func (e *Engine) syncEvents(now time.Time) error {
	events, err := e.events.List()
	if err != nil {
		return err
	}

	active := make(map[string]bool)
	for _, event := range events {
		// Countdowns are display-only
		if !event.Enabled || event.IsCountdown {
			continue
		}
		active[event.Key] = true

		rules, err := e.reminders.ListBySource(event.Key)
		if err != nil {
			return err
		}

		if len(rules) == 0 {
			rule := model.NewOneShotRule(model.KindEvent, event.Title, event.RemindAt, event.Repeat)
			rule.Message = event.Description
			rule.SourceKey = event.Key
			if err := e.reminders.Create(rule); err != nil {
				return err
			}
			continue
		}

		rule := rules[0]
		if rule.At.Equal(event.RemindAt) && rule.Repeat == event.Repeat && rule.Title == event.Title {
			continue
		}
		rule.At = event.RemindAt
		rule.Repeat = event.Repeat
		rule.Title = event.Title
		rule.Message = event.Description
		rule.Completed = false
		rule.NextFire = time.Time{}
		e.save(rule)
	}

	return e.pruneSourceRules(model.PrefixEvent, active)
}

// pruneSourceRules deletes rules whose source entity is no longer active.
func (e *Engine) pruneSourceRules(sourcePrefix string, active map[string]bool) error {
	rules, err := e.reminders.List()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if rule.SourceKey == "" || !strings.HasPrefix(rule.SourceKey, sourcePrefix+":") {
			continue
		}
		if active[rule.SourceKey] {
			continue
		}
		if err := e.reminders.Delete(rule.Key); err != nil {
			return err
		}
		logging.DebugLog("pruned orphaned rule",
			logging.KeyReminderID, rule.ShortID(),
			"source", rule.SourceKey)
	}
	return nil
}

// sameTimes compares two clock-time lists in order.
func sameTimes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
