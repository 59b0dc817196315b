package payroll

import (
	"fmt"
	"time"

	"github.com/crewdeck/crewclock/internal/timecalc"
)

// ClockTime is a wall-clock time of day such as a scheduled shift start.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" (24-hour).
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q (want HH:MM): %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant this clock time occurs on day's calendar date.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ShouldSendPunchReminder decides whether a crew member who is scheduled to
// start at scheduled needs a punch-in reminder at now. The reminder becomes
// due grace after the scheduled start and is suppressed only by a punch-in
// on now's calendar date.
func ShouldSendPunchReminder(scheduled *ClockTime, lastPunchIn *time.Time, now time.Time, grace time.Duration) bool {
	if scheduled == nil {
		return false
	}
	if now.Before(scheduled.On(now).Add(grace)) {
		return false
	}
	if lastPunchIn == nil {
		return true
	}
	return !timecalc.SameDay(lastPunchIn.In(now.Location()), now)
}
