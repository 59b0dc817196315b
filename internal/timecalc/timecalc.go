package timecalc

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout used for date keys and date flags.
const DateLayout = "2006-01-02"

// GenerateID creates a unique entry ID.
func GenerateID() string {
	return uuid.NewString()
}

// FormatDuration renders a fractional hour count as "2h" or "2h 30m".
// The value is rounded to the nearest minute before it is split, so
// 2.999999 renders as "3h" rather than "2h 60m".
func FormatDuration(hours float64) string {
	minutes := int64(math.Round(hours * 60))
	h := floorDiv(minutes, 60)
	m := minutes - h*60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ElapsedTime formats the time between start and now as FormatDuration does.
func ElapsedTime(start, now time.Time) string {
	return FormatDuration(now.Sub(start).Hours())
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatClock renders t as a 12-hour clock time, e.g. "9:05 AM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// DateIn returns midnight of t's calendar date as observed in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t.In(loc))
}

// DateKey returns the YYYY-MM-DD key of t's calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD flag value as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}
