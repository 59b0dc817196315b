package payroll

import (
	"time"

	"github.com/crewdeck/crewclock/internal/model"
)

// EntryHours splits a closed entry into total, standard and overtime hours.
// Lunch is deducted only when both ends are recorded and in order; an entry
// with just one lunch timestamp is counted as if no break was taken. Open
// entries yield zeros.
func EntryHours(e model.TimeEntry, p Policy) (total, standard, overtime float64) {
	if e.PunchOutTime == nil {
		return 0, 0, 0
	}
	worked := e.PunchOutTime.Sub(e.PunchInTime)
	if e.LunchBreakStart != nil && e.LunchBreakEnd != nil && e.LunchBreakEnd.After(*e.LunchBreakStart) {
		worked -= e.LunchBreakEnd.Sub(*e.LunchBreakStart)
	}

	total = Round2(worked.Hours())
	standard = total
	if standard > p.StandardHoursPerDay {
		standard = p.StandardHoursPerDay
	}
	overtime = Round2(total - standard)
	return total, standard, overtime
}

// CloseEntry sets the punch-out time and the computed hour fields.
func CloseEntry(e *model.TimeEntry, out time.Time, p Policy) {
	e.PunchOutTime = &out
	total, standard, overtime := EntryHours(*e, p)
	e.TotalHours = &total
	e.StandardHours = &standard
	e.OvertimeHours = &overtime
}
