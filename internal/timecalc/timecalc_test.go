package timecalc_test

import (
	"testing"
	"time"

	"github.com/crewdeck/crewclock/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h"},
		{2.0, "2h"},
		{2.5, "2h 30m"},
		{0.25, "0h 15m"},
		{7.75, "7h 45m"},
		{2.999999, "3h"},
		{1.9999, "2h"},
		{10.0 / 60, "0h 10m"},
		{-0.5, "-1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.hours)
		if got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestElapsedTime(t *testing.T) {
	start := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		now  time.Time
		want string
	}{
		{start, "0h"},
		{start.Add(90 * time.Minute), "1h 30m"},
		{start.Add(8*time.Hour + 59*time.Minute + 59*time.Second), "9h"},
		{start.Add(29 * time.Second), "0h"},
	}
	for _, tt := range tests {
		got := timecalc.ElapsedTime(start, tt.now)
		if got != tt.want {
			t.Errorf("ElapsedTime(%v) = %q, want %q", tt.now.Sub(start), got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	got := timecalc.FormatClock(time.Date(2026, 6, 15, 13, 5, 0, 0, time.UTC))
	if got != "1:05 PM" {
		t.Errorf("FormatClock = %q, want %q", got, "1:05 PM")
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestDateKeyUsesLocation(t *testing.T) {
	// 03:30 UTC on the 16th is still the 15th in Chicago.
	ts := time.Date(2026, 6, 16, 3, 30, 0, 0, time.UTC)
	chicago := time.FixedZone("CDT", -5*3600)

	if got := timecalc.DateKey(ts, time.UTC); got != "2026-06-16" {
		t.Errorf("DateKey(UTC) = %q, want 2026-06-16", got)
	}
	if got := timecalc.DateKey(ts, chicago); got != "2026-06-15" {
		t.Errorf("DateKey(CDT) = %q, want 2026-06-15", got)
	}
	d := timecalc.DateIn(ts, chicago)
	if d.Day() != 15 || d.Hour() != 0 {
		t.Errorf("DateIn(CDT) = %v, want midnight of the 15th", d)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2026-06-12", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := timecalc.ParseDate("12/06/2026", time.UTC); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestGenerateID(t *testing.T) {
	a := timecalc.GenerateID()
	b := timecalc.GenerateID()
	if len(a) != 36 {
		t.Errorf("GenerateID length = %d, want 36", len(a))
	}
	if a == b {
		t.Error("GenerateID returned the same ID twice")
	}
}
