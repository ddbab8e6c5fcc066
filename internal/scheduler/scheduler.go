// Package scheduler drives the reminder engine from a cron-based tick.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/logging"
)

// Scheduler runs the engine on a minute tick and resynchronizes rules on a
// slower cadence.
type Scheduler struct {
	cron      *cron.Cron
	engine    *Engine
	lastCheck time.Time
	mu        sync.Mutex
	debug     bool
}

// NewScheduler creates a new scheduler around the given engine.
func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		engine: engine,
	}
}

// SetDebug enables debug output.
func (s *Scheduler) SetDebug(debug bool) {
	s.debug = debug
	if s.engine != nil {
		s.engine.SetDebug(debug)
	}
}

// Start starts the scheduler with all configured jobs.
func (s *Scheduler) Start() error {
	s.lastCheck = time.Now()

	// Materialize rules before the first tick
	if err := s.engine.Sync(time.Now()); err != nil {
		logging.Warn("initial rule sync failed", logging.KeyError, err)
	}

	// Minute tick drives rule evaluation
	_, err := s.cron.AddFunc("0 * * * * *", func() {
		s.runMinuteTick()
	})
	if err != nil {
		return fmt.Errorf("failed to add minute tick: %w", err)
	}

	// Rule resync picks up settings, medication, and event changes
	_, err = s.cron.AddFunc("0 */5 * * * *", func() {
		s.runResync()
	})
	if err != nil {
		return fmt.Errorf("failed to add resync job: %w", err)
	}

	s.cron.Start()

	logging.DebugLog("scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	logging.DebugLog("scheduler stopped")
}

// runMinuteTick evaluates all rules once per minute. A tick arriving after
// a long gap means the machine was suspended; instead of firing a burst of
// missed reminders, the stale tick re-anchors the rules to now.
func (s *Scheduler) runMinuteTick() {
	s.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(s.lastCheck)
	s.lastCheck = now
	s.mu.Unlock()

	if elapsed > config.Global.Scheduler.SleepThreshold {
		logging.Info("sleep gap detected, re-anchoring rules",
			"elapsed", elapsed.Round(time.Second).String())
		s.engine.Reanchor(now)
		return
	}

	s.engine.Tick(now)
}

// runResync refreshes the materialized rules.
func (s *Scheduler) runResync() {
	if err := s.engine.Sync(time.Now()); err != nil {
		logging.Warn("rule sync failed", logging.KeyError, err)
	}
}

// AddJob adds a custom job to the scheduler.
func (s *Scheduler) AddJob(spec string, job func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, job)
}

// RemoveJob removes a job from the scheduler.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.cron.Remove(id)
}

// Entries returns all scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns the next scheduled run time for any job.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
