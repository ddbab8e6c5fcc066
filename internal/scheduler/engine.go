package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/logging"
	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/notify"
	"github.com/materna-cli/materna/internal/parser"
	"github.com/materna-cli/materna/internal/pregnancy"
	"github.com/materna-cli/materna/internal/storage"
)

// refire behavior for occurrences that stay unacknowledged.
const (
	// defaultRefireGap is the base re-fire gap for clock and one-shot
	// rules once escalation starts.
	defaultRefireGap = 30 * time.Minute

	// maxUnackedFires is the give-up point: the rule stops nagging and
	// returns to its natural cadence (one-shots complete or recur).
	maxUnackedFires = 10
)

// ContentSource supplies generated reminder content. The tips service
// implements it; the engine falls back to static messages without one.
type ContentSource interface {
	ReminderContent(ctx context.Context, kind model.ReminderKind, week int) (string, error)
}

// MetricsRecorder receives engine delivery events.
type MetricsRecorder interface {
	RecordReminderFired(kind string)
	RecordNotificationSent(latencyMs int64)
	RecordNotificationFailed(err error)
}

// Engine evaluates reminder rules against the clock and dispatches fired
// occurrences to the notification sinks.
//
// All scheduling state lives on the rules themselves (NextFire,
// UnackedFires, SnoozedUntil), so a restart resumes exactly where the
// previous process stopped.
type Engine struct {
	reminders  *storage.ReminderRepo
	settings   *storage.SettingsRepo
	profile    *storage.ProfileRepo
	meds       *storage.MedicationRepo
	events     *storage.EventRepo
	water      *storage.WaterRepo
	dispatcher *notify.Dispatcher
	content    ContentSource
	metrics    MetricsRecorder
	debug      bool
}

// NewEngine creates an engine over the given repositories.
func NewEngine(db *storage.DB, dispatcher *notify.Dispatcher) *Engine {
	return &Engine{
		reminders:  storage.NewReminderRepo(db),
		settings:   storage.NewSettingsRepo(db),
		profile:    storage.NewProfileRepo(db),
		meds:       storage.NewMedicationRepo(db),
		events:     storage.NewEventRepo(db),
		water:      storage.NewWaterRepo(db),
		dispatcher: dispatcher,
	}
}

// SetContentSource attaches a generated-content source.
func (e *Engine) SetContentSource(src ContentSource) {
	e.content = src
}

// SetMetrics attaches a metrics recorder.
func (e *Engine) SetMetrics(m MetricsRecorder) {
	e.metrics = m
}

// SetDebug enables debug output.
func (e *Engine) SetDebug(debug bool) {
	e.debug = debug
}

// Tick evaluates every pending rule against now.
func (e *Engine) Tick(now time.Time) {
	settings, err := e.settings.Get()
	if err != nil {
		logging.Error("failed to load settings", logging.KeyError, err)
		return
	}

	week := e.currentWeek(now)

	rules, err := e.reminders.ListPending()
	if err != nil {
		logging.Error("failed to list rules", logging.KeyError, err)
		return
	}

	for _, rule := range rules {
		e.evaluate(now, rule, settings, week)
	}
}

// evaluate advances a single rule through one tick.
func (e *Engine) evaluate(now time.Time, rule *model.ReminderRule, settings *model.Settings, week int) {
	// Week-gated rules stay dormant until the pregnancy is far enough along
	if rule.MinWeek > 0 && week < rule.MinWeek {
		return
	}

	if rule.IsSnoozed(now) {
		return
	}

	// First evaluation of a fresh rule anchors it without firing
	if rule.NextFire.IsZero() {
		rule.NextFire = e.naturalNext(rule, now)
		if rule.NextFire.IsZero() && rule.IsOneShot() {
			e.expireOneShot(rule, now)
			return
		}
		e.save(rule)
		return
	}

	if now.Before(rule.NextFire) {
		return
	}

	overdue := now.Sub(rule.NextFire)

	// A one-shot missed by more than the grace window is gone; recurring
	// shapes just re-anchor after a long outage instead of bursting.
	if rule.IsOneShot() {
		if overdue > config.Global.Scheduler.OneShotGrace {
			e.expireOneShot(rule, now)
			return
		}
	} else if overdue > config.Global.Scheduler.SleepThreshold {
		rule.NextFire = e.naturalNext(rule, now)
		e.save(rule)
		return
	}

	// Interval rules only fire inside their active window
	if rule.IsInterval() && !parser.InWindow(now, rule.WindowStart, rule.WindowEnd) {
		rule.NextFire = nextWindowStart(rule, now)
		e.save(rule)
		return
	}

	// Workday-only clock rules skip weekends
	if rule.IsClock() && rule.WorkdaysOnly && !parser.IsWorkday(now) {
		rule.NextFire = e.naturalNext(rule, now)
		e.save(rule)
		return
	}

	priority := rule.EffectivePriority(settings.EscalateEvery)

	// Quiet hours defer everything below Urgent to the window end.
	// Both bounds must be set: InWindow treats missing bounds as an
	// open window, which would silence every reminder by default.
	if priority != model.PriorityUrgent &&
		settings.QuietStart != "" && settings.QuietEnd != "" &&
		parser.InWindow(now, settings.QuietStart, settings.QuietEnd) {
		rule.NextFire = quietEnd(settings, now)
		e.save(rule)
		return
	}

	e.fire(now, rule, settings, week, priority)
}

// fire dispatches a notification for the rule and schedules the follow-up.
func (e *Engine) fire(now time.Time, rule *model.ReminderRule, settings *model.Settings, week int, priority model.Priority) {
	n := e.buildNotification(rule, settings, week, priority)

	ctx, cancel := context.WithTimeout(context.Background(), config.Global.HTTP.Timeout)
	defer cancel()

	results := e.dispatcher.SendNotification(ctx, n)
	for _, result := range results {
		if result.Error != nil {
			logging.Warn("notification delivery failed",
				logging.KeySink, result.SinkName,
				logging.KeyKind, string(rule.Kind),
				logging.KeyError, result.Error)
			if e.metrics != nil {
				e.metrics.RecordNotificationFailed(result.Error)
			}
		} else if e.metrics != nil {
			e.metrics.RecordNotificationSent(result.Duration.Milliseconds())
		}
	}

	if e.metrics != nil {
		e.metrics.RecordReminderFired(string(rule.Kind))
	}

	rule.LastFired = now
	rule.UnackedFires++
	rule.SnoozedUntil = time.Time{}

	logging.Info("reminder fired",
		logging.KeyKind, string(rule.Kind),
		logging.KeyReminderID, rule.ShortID(),
		"priority", priority.Label(),
		"unacked", rule.UnackedFires)

	if rule.UnackedFires >= maxUnackedFires {
		// Give up nagging
		rule.UnackedFires = 0
		if rule.IsOneShot() {
			e.advanceOneShot(rule, now)
			return
		}
		rule.NextFire = e.naturalNext(rule, now)
		e.save(rule)
		return
	}

	rule.NextFire = e.nextAfterFire(rule, settings, now)
	if rule.NextFire.IsZero() && rule.IsOneShot() && rule.Repeat.Recurs() {
		e.advanceOneShot(rule, now)
		return
	}
	e.save(rule)
}

// nextAfterFire picks the follow-up time for a rule that just fired.
// Before escalation starts the rule keeps its natural cadence; after,
// the re-fire gap halves per escalation step down to the configured floor.
// One-shot rules always re-fire until acknowledged.
func (e *Engine) nextAfterFire(rule *model.ReminderRule, settings *model.Settings, now time.Time) time.Time {
	natural := e.naturalNext(rule, now)

	steps := 0
	if settings.EscalateEvery > 0 {
		steps = rule.UnackedFires / settings.EscalateEvery
	}

	if steps == 0 && !rule.IsOneShot() {
		return natural
	}

	gap := defaultRefireGap
	if rule.IsInterval() {
		gap = time.Duration(rule.IntervalMinutes) * time.Minute
	}
	for i := 0; i < steps; i++ {
		gap /= 2
	}
	if gap < config.Global.Scheduler.EscalationFloor {
		gap = config.Global.Scheduler.EscalationFloor
	}

	refire := now.Add(gap)
	if natural.IsZero() || refire.Before(natural) {
		return refire
	}
	return natural
}

// naturalNext computes the rule's next regular occurrence after now,
// ignoring escalation. Returns the zero time for a spent one-shot.
func (e *Engine) naturalNext(rule *model.ReminderRule, now time.Time) time.Time {
	switch {
	case rule.IsInterval():
		next := now.Add(time.Duration(rule.IntervalMinutes) * time.Minute)
		if !parser.InWindow(next, rule.WindowStart, rule.WindowEnd) {
			return nextWindowStart(rule, next)
		}
		return next

	case rule.IsClock():
		var best time.Time
		for _, spec := range rule.ClockTimes {
			ct, err := parser.ParseClockTime(spec)
			if err != nil {
				continue
			}
			at := ct.NextAfter(now)
			if rule.WorkdaysOnly {
				for !parser.IsWorkday(at) {
					at = at.AddDate(0, 0, 1)
				}
			}
			if best.IsZero() || at.Before(best) {
				best = at
			}
		}
		return best

	case rule.IsOneShot():
		if now.Before(rule.At) {
			return rule.At
		}
		if !rule.Repeat.Recurs() {
			return time.Time{}
		}
		at := rule.At
		for !at.After(now) {
			probe := &model.ReminderRule{At: at, Repeat: rule.Repeat}
			at = probe.NextOneShot()
			if at.IsZero() {
				return time.Time{}
			}
		}
		return at
	}

	return time.Time{}
}

// advanceOneShot moves a one-shot rule past its current occurrence:
// recurring rules roll At forward, the rest complete.
func (e *Engine) advanceOneShot(rule *model.ReminderRule, now time.Time) {
	if !rule.Repeat.Recurs() {
		rule.Completed = true
		rule.CompletedAt = now
		e.save(rule)
		return
	}

	at := rule.At
	for !at.After(now) {
		probe := &model.ReminderRule{At: at, Repeat: rule.Repeat}
		at = probe.NextOneShot()
		if at.IsZero() {
			rule.Completed = true
			rule.CompletedAt = now
			e.save(rule)
			return
		}
	}
	rule.At = at
	rule.NextFire = at
	rule.UnackedFires = 0
	rule.SnoozedUntil = time.Time{}
	e.save(rule)
}

// expireOneShot retires a one-shot whose time passed outside the grace
// window without firing.
func (e *Engine) expireOneShot(rule *model.ReminderRule, now time.Time) {
	logging.Info("one-shot reminder missed",
		logging.KeyReminderID, rule.ShortID(),
		"scheduled", rule.At.Format(time.RFC3339))
	e.advanceOneShot(rule, now)
}

// Reanchor recomputes NextFire for every recurring rule from now, after a
// sleep gap. One-shot rules keep their time so the grace check can still
// fire a just-missed appointment once.
func (e *Engine) Reanchor(now time.Time) {
	rules, err := e.reminders.ListPending()
	if err != nil {
		logging.Error("failed to list rules", logging.KeyError, err)
		return
	}

	for _, rule := range rules {
		if rule.IsOneShot() {
			continue
		}
		rule.NextFire = e.naturalNext(rule, now)
		rule.UnackedFires = 0
		e.save(rule)
	}

	logging.Info("rules re-anchored", logging.KeyCount, len(rules))
}

// Acknowledge marks the pending occurrence of a rule as handled. Recurring
// rules advance to their natural next occurrence; one-shot rules complete
// or, with a repeat rule, roll forward.
func (e *Engine) Acknowledge(key string, now time.Time) error {
	rule, err := e.reminders.Get(key)
	if err != nil {
		return err
	}

	rule.UnackedFires = 0
	rule.SnoozedUntil = time.Time{}

	if rule.IsOneShot() {
		e.advanceOneShot(rule, now)
		return nil
	}

	rule.NextFire = e.naturalNext(rule, now)
	return e.reminders.Update(rule)
}

// Snooze pushes the pending occurrence forward by d without advancing the
// recurrence. Snoozing counts as a response, so escalation resets.
func (e *Engine) Snooze(key string, d time.Duration, now time.Time) (time.Time, error) {
	rule, err := e.reminders.Get(key)
	if err != nil {
		return time.Time{}, err
	}

	until := now.Add(d)
	rule.SnoozedUntil = until
	rule.NextFire = until
	rule.UnackedFires = 0

	if err := e.reminders.Update(rule); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

// TriggerNow fires a rule immediately, regardless of its schedule.
func (e *Engine) TriggerNow(key string, now time.Time) error {
	rule, err := e.reminders.Get(key)
	if err != nil {
		return err
	}

	settings, err := e.settings.Get()
	if err != nil {
		return err
	}

	week := e.currentWeek(now)
	n := e.buildNotification(rule, settings, week, rule.EffectivePriority(settings.EscalateEvery))

	ctx, cancel := context.WithTimeout(context.Background(), config.Global.HTTP.Timeout)
	defer cancel()

	results := e.dispatcher.SendNotification(ctx, n)
	for _, result := range results {
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// buildNotification assembles the outgoing notification for a rule.
func (e *Engine) buildNotification(rule *model.ReminderRule, settings *model.Settings, week int, priority model.Priority) *model.Notification {
	title := rule.Title
	if title == "" {
		title = defaultTitle(rule.Kind)
	}

	message := rule.Message
	if message == "" {
		message = defaultMessage(rule.Kind)
	}

	if generated := e.generatedContent(rule.Kind, settings, week); generated != "" {
		message = generated
	}

	n := model.NewNotification(rule.Kind, title, message).WithPriority(priority)

	if rule.Kind == model.KindWater {
		if total, err := e.water.DayTotal(time.Now()); err == nil {
			n.WithField("Today", fmt.Sprintf("%dml / %dml", total, settings.WaterTargetML))
		}
	}

	if week > 0 {
		n.WithField("Week", fmt.Sprintf("%d", week))
	}

	if rule.UnackedFires >= settings.EscalateEvery && settings.EscalateEvery > 0 {
		n.WithField("Unanswered", fmt.Sprintf("%d", rule.UnackedFires))
	}

	return n
}

// generatedContent asks the content source for a message when the AI mode
// covers this kind. Any failure falls back to the static message.
func (e *Engine) generatedContent(kind model.ReminderKind, settings *model.Settings, week int) string {
	if e.content == nil {
		return ""
	}

	covered := false
	for _, k := range settings.GeneratedKinds() {
		if k == kind {
			covered = true
			break
		}
	}
	if !covered {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global.Tips.Timeout)
	defer cancel()

	content, err := e.content.ReminderContent(ctx, kind, week)
	if err != nil {
		logging.DebugLog("generated content unavailable",
			logging.KeyKind, string(kind),
			logging.KeyError, err)
		return ""
	}
	return content
}

// currentWeek returns the pregnancy week, or 0 without a profile.
func (e *Engine) currentWeek(now time.Time) int {
	profile, err := e.profile.Get()
	if err != nil || !profile.Enabled || !profile.HasLMP() {
		return 0
	}
	week, _ := pregnancy.WeekAt(profile.LastPeriodDate, now)
	return week
}

// save persists a rule, logging failures instead of propagating them so a
// single bad record cannot stall the tick.
func (e *Engine) save(rule *model.ReminderRule) {
	if err := e.reminders.Update(rule); err != nil {
		logging.Error("failed to save rule",
			logging.KeyReminderID, rule.ShortID(),
			logging.KeyError, err)
	}
}

// nextWindowStart returns the next time the rule's window opens.
func nextWindowStart(rule *model.ReminderRule, now time.Time) time.Time {
	ct, err := parser.ParseClockTime(rule.WindowStart)
	if err != nil {
		return now.Add(time.Duration(rule.IntervalMinutes) * time.Minute)
	}
	if parser.InWindow(now, rule.WindowStart, rule.WindowEnd) {
		return now
	}
	return ct.NextAfter(now)
}

// quietEnd returns the next time quiet hours end.
func quietEnd(settings *model.Settings, now time.Time) time.Time {
	ct, err := parser.ParseClockTime(settings.QuietEnd)
	if err != nil {
		return now.Add(time.Hour)
	}
	return ct.NextAfter(now)
}
