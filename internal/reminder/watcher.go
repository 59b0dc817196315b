// Package reminder nudges a crew member who has not punched in shortly
// after their scheduled start.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crewdeck/crewclock/internal/logging"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// checkTimeout bounds a single scheduled check.
const checkTimeout = 30 * time.Second

// Watcher checks the local day files against the scheduled start and sends
// at most one reminder per calendar day.
type Watcher struct {
	Base         string
	Scheduled    *payroll.ClockTime
	Grace        time.Duration
	Location     *time.Location
	SkipHolidays bool
	Notifier     Notifier
	Clock        func() time.Time

	mu       sync.Mutex
	lastSent string
}

func (w *Watcher) now() time.Time {
	clock := w.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}

// Check runs one reminder decision and reports whether a reminder was sent.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	today := timecalc.DateKey(now, now.Location())
	if w.lastSent == today {
		return false, nil
	}
	if w.SkipHolidays && IsDayOff(now) {
		return false, nil
	}

	last, err := storage.LastPunchIn(w.Base, now)
	if err != nil {
		return false, fmt.Errorf("reading last punch-in: %w", err)
	}
	if !payroll.ShouldSendPunchReminder(w.Scheduled, last, now, w.Grace) {
		return false, nil
	}

	notifier := w.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if err := notifier.Notify(ctx, Message{Scheduled: *w.Scheduled, Now: now}); err != nil {
		return false, fmt.Errorf("sending reminder: %w", err)
	}
	w.lastSent = today
	return true, nil
}

// Run schedules Check with the given cron spec and blocks until ctx is
// cancelled. Jobs still running at shutdown are waited for.
func (w *Watcher) Run(ctx context.Context, spec string) error {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		jobCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		if _, err := w.Check(jobCtx); err != nil {
			logging.Logger.WithError(err).Error("Punch reminder check failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	logging.Logger.WithField("schedule", spec).Info("Reminder watcher started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	logging.Logger.Info("Reminder watcher stopped")
	return nil
}
