package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// DailyTimeEntry groups the entries punched in on one calendar date.
type DailyTimeEntry struct {
	Date          time.Time         `json:"date"`
	Entries       []model.TimeEntry `json:"entries"`
	TotalHours    float64           `json:"total_hours"`
	StandardHours float64           `json:"standard_hours"`
	OvertimeHours float64           `json:"overtime_hours"`
}

// PayrollSummary is the rounded roll-up of a set of entries.
type PayrollSummary struct {
	TotalStandardHours float64 `json:"total_standard_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalHours         float64 `json:"total_hours"`
	DayCount           int     `json:"day_count"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
}

// GroupByDate partitions entries by the punch-in date observed in loc,
// most recent day first. Entries keep their input order within a day.
func GroupByDate(entries []model.TimeEntry, loc *time.Location) []DailyTimeEntry {
	if loc == nil {
		loc = time.UTC
	}
	index := map[string]int{}
	days := []DailyTimeEntry{}

	for _, e := range entries {
		key := timecalc.DateKey(e.PunchInTime, loc)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DailyTimeEntry{Date: timecalc.DateIn(e.PunchInTime, loc)})
		}
		total, standard, overtime := e.Hours()
		days[i].Entries = append(days[i].Entries, e)
		days[i].TotalHours += total
		days[i].StandardHours += standard
		days[i].OvertimeHours += overtime
	}

	sort.SliceStable(days, func(a, b int) bool {
		return days[a].Date.After(days[b].Date)
	})
	return days
}

// Summarize totals standard and overtime hours across entries.
//
// Sums are accumulated unrounded and rounded to two decimals once, here.
// TotalHours is derived from the rounded parts so that it always equals
// standard plus overtime, whatever the entries' stored totals say.
func Summarize(entries []model.TimeEntry, loc *time.Location) PayrollSummary {
	if loc == nil {
		loc = time.UTC
	}
	var standard, overtime float64
	days := map[string]struct{}{}
	for _, e := range entries {
		_, s, o := e.Hours()
		standard += s
		overtime += o
		days[timecalc.DateKey(e.PunchInTime, loc)] = struct{}{}
	}

	stdRounded := Round2(standard)
	otRounded := Round2(overtime)
	summary := PayrollSummary{
		TotalStandardHours: stdRounded,
		TotalOvertimeHours: otRounded,
		TotalHours:         Round2(stdRounded + otRounded),
		DayCount:           len(days),
	}
	if summary.DayCount > 0 {
		summary.AverageHoursPerDay = Round2((standard + overtime) / float64(summary.DayCount))
	}
	return summary
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
