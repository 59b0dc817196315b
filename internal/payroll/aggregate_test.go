package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/payroll"
)

func f(v float64) *float64 { return &v }

func entry(id string, in time.Time, standard, overtime float64) model.TimeEntry {
	return model.TimeEntry{
		ID:            id,
		UserID:        "crew-1",
		PunchInTime:   in,
		TotalHours:    f(standard + overtime),
		StandardHours: f(standard),
		OvertimeHours: f(overtime),
	}
}

func TestSummarizeScenario(t *testing.T) {
	entries := []model.TimeEntry{
		entry("a", time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), 8, 0),
		entry("b", time.Date(2026, 6, 16, 8, 0, 0, 0, time.UTC), 6, 2),
	}

	s := payroll.Summarize(entries, time.UTC)
	assert.Equal(t, 14.0, s.TotalStandardHours)
	assert.Equal(t, 2.0, s.TotalOvertimeHours)
	assert.Equal(t, 16.0, s.TotalHours)
	assert.Equal(t, 2, s.DayCount)
	assert.Equal(t, 8.0, s.AverageHoursPerDay)
}

func TestSummarizeEmpty(t *testing.T) {
	s := payroll.Summarize(nil, time.UTC)
	assert.Equal(t, 0, s.DayCount)
	assert.Equal(t, 0.0, s.AverageHoursPerDay)
	assert.Equal(t, 0.0, s.TotalHours)
}

func TestSummarizeIgnoresStoredTotal(t *testing.T) {
	e := entry("a", time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), 7.5, 1)
	e.TotalHours = f(99)

	s := payroll.Summarize([]model.TimeEntry{e}, time.UTC)
	assert.Equal(t, 8.5, s.TotalHours)
}

func TestSummarizeNilHoursCountAsZero(t *testing.T) {
	open := model.TimeEntry{ID: "open", PunchInTime: time.Date(2026, 6, 17, 8, 0, 0, 0, time.UTC)}
	entries := []model.TimeEntry{
		entry("a", time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), 8, 0),
		open,
	}

	s := payroll.Summarize(entries, time.UTC)
	assert.Equal(t, 8.0, s.TotalHours)
	assert.Equal(t, 2, s.DayCount)
	assert.Equal(t, 4.0, s.AverageHoursPerDay)
}

func TestSummarizeRoundsOnce(t *testing.T) {
	var entries []model.TimeEntry
	for i := 0; i < 3; i++ {
		entries = append(entries, entry("x", time.Date(2026, 6, 15+i, 8, 0, 0, 0, time.UTC), 1.0/3, 0.004))
	}

	s := payroll.Summarize(entries, time.UTC)
	assert.Equal(t, 1.0, s.TotalStandardHours)
	// 3 x 0.004 = 0.012; rounding each entry first would give 0.
	assert.Equal(t, 0.01, s.TotalOvertimeHours)
	assert.Equal(t, 1.01, s.TotalHours)
	assert.Equal(t, 0.34, s.AverageHoursPerDay)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1.004, 1},
		{1.005, 1.01},
		{2.999999, 3},
		{-1.005, -1.01},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, payroll.Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestSummarizeTotalIsStandardPlusOvertime(t *testing.T) {
	values := []float64{0.333, 1.115, 2.005, 7.999, 0.125, 3.3333}
	var entries []model.TimeEntry
	for i, v := range values {
		entries = append(entries, entry("x", time.Date(2026, 6, 1+i, 8, 0, 0, 0, time.UTC), v, values[len(values)-1-i]/3))
		s := payroll.Summarize(entries, time.UTC)
		assert.InDelta(t, s.TotalStandardHours+s.TotalOvertimeHours, s.TotalHours, 1e-9)
	}
}

func TestSummarizeDayCountUsesLocation(t *testing.T) {
	// Both are on June 15 in Chicago but on different UTC dates.
	chicago := time.FixedZone("CDT", -5*3600)
	entries := []model.TimeEntry{
		entry("a", time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC), 4, 0),
		entry("b", time.Date(2026, 6, 16, 2, 0, 0, 0, time.UTC), 4, 0),
	}

	assert.Equal(t, 2, payroll.Summarize(entries, time.UTC).DayCount)
	assert.Equal(t, 1, payroll.Summarize(entries, chicago).DayCount)
}

func TestGroupByDate(t *testing.T) {
	entries := []model.TimeEntry{
		entry("mon-am", time.Date(2026, 6, 15, 7, 0, 0, 0, time.UTC), 4, 0),
		entry("tue", time.Date(2026, 6, 16, 8, 0, 0, 0, time.UTC), 6, 2),
		entry("mon-pm", time.Date(2026, 6, 15, 13, 0, 0, 0, time.UTC), 4, 1.5),
		entry("wed", time.Date(2026, 6, 17, 9, 0, 0, 0, time.UTC), 3, 0),
	}

	days := payroll.GroupByDate(entries, time.UTC)
	require.Len(t, days, 3)

	assert.Equal(t, day(2026, 6, 17), days[0].Date)
	assert.Equal(t, day(2026, 6, 16), days[1].Date)
	assert.Equal(t, day(2026, 6, 15), days[2].Date)

	mon := days[2]
	require.Len(t, mon.Entries, 2)
	assert.Equal(t, "mon-am", mon.Entries[0].ID)
	assert.Equal(t, "mon-pm", mon.Entries[1].ID)
	assert.Equal(t, 8.0, mon.StandardHours)
	assert.Equal(t, 1.5, mon.OvertimeHours)
	assert.Equal(t, 9.5, mon.TotalHours)
}

func TestGroupByDateKeepsEveryEntry(t *testing.T) {
	var entries []model.TimeEntry
	for i := 0; i < 20; i++ {
		in := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC).Add(time.Duration(i*7) * time.Hour)
		entries = append(entries, entry(string(rune('a'+i)), in, 1, 0))
	}

	days := payroll.GroupByDate(entries, time.UTC)

	seen := map[string]int{}
	for i, d := range days {
		if i > 0 {
			require.True(t, days[i-1].Date.After(d.Date), "groups not strictly descending")
		}
		for _, e := range d.Entries {
			seen[e.ID]++
		}
	}
	require.Len(t, seen, len(entries))
	for id, n := range seen {
		assert.Equal(t, 1, n, "entry %s seen %d times", id, n)
	}
}

func TestGroupByDateEmpty(t *testing.T) {
	assert.Empty(t, payroll.GroupByDate(nil, time.UTC))
}
