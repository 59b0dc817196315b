package payroll

import (
	"fmt"
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/crewdeck/crewclock/internal/model"
)

const shortDateLayout = "Jan 2, 2006"

// PayrollPeriod is one pay period. All dates are midnight in the
// calculator's location; start and end are inclusive.
type PayrollPeriod struct {
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
	PaymentDate       time.Time `json:"payment_date"`
	ActualPaymentDate time.Time `json:"actual_payment_date"`
	CutoffDate        time.Time `json:"cutoff_date"`
	PeriodName        string    `json:"period_name"`
}

// ID is the stable key used when entries are assigned to this period.
func (p PayrollPeriod) ID() string {
	return p.PeriodStart.Format("2006-01-02") + "_" + p.PeriodEnd.Format("2006-01-02")
}

// Contains reports whether t's calendar date lies within the period.
func (p PayrollPeriod) Contains(t time.Time) bool {
	d := dateOf(t.In(p.PeriodStart.Location()))
	return !d.Before(p.PeriodStart) && !d.After(p.PeriodEnd)
}

// Select returns the entries whose punch-in date lies within the period,
// in input order.
func (p PayrollPeriod) Select(entries []model.TimeEntry) []model.TimeEntry {
	selected := []model.TimeEntry{}
	for _, e := range entries {
		if p.Contains(e.PunchInTime) {
			selected = append(selected, e)
		}
	}
	return selected
}

// Calculator derives pay periods in a fixed location.
type Calculator struct {
	Policy   Policy
	Location *time.Location
	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

// NewCalculator returns a Calculator for policy in loc. A nil loc means UTC.
func NewCalculator(policy Policy, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{Policy: policy, Location: loc}
}

func (c *Calculator) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Calculator) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// Date returns midnight of t's calendar date in the calculator's location.
func (c *Calculator) Date(t time.Time) time.Time {
	return dateOf(t.In(c.loc()))
}

// PeriodFor returns the pay period for t's calendar date. Days up to
// FirstCloseDay belong to the period that started in the previous month;
// every later day, including those after SecondCloseDay, resolves to the
// period starting on FirstCloseDay+1.
func (c *Calculator) PeriodFor(t time.Time) PayrollPeriod {
	d := c.Date(t)
	y, m, day := d.Date()
	loc := d.Location()
	p := c.Policy

	var start, end, pay time.Time
	if day <= p.FirstCloseDay {
		// time.Date normalises month 0 to December of the previous year.
		start = time.Date(y, m-1, p.SecondCloseDay+1, 0, 0, 0, 0, loc)
		end = time.Date(y, m, p.FirstCloseDay, 0, 0, 0, 0, loc)
		pay = time.Date(y, m, p.FirstPayDay, 0, 0, 0, 0, loc)
	} else {
		start = time.Date(y, m, p.FirstCloseDay+1, 0, 0, 0, 0, loc)
		end = time.Date(y, m, p.SecondCloseDay, 0, 0, 0, 0, loc)
		pay = time.Date(y, m+1, p.SecondPayDay, 0, 0, 0, 0, loc)
	}

	actual := AdjustForWeekend(pay)
	return PayrollPeriod{
		PeriodStart:       start,
		PeriodEnd:         end,
		PaymentDate:       pay,
		ActualPaymentDate: actual,
		CutoffDate:        actual.AddDate(0, 0, -p.CutoffDays),
		PeriodName:        fmt.Sprintf("%s - %s", start.Format(shortDateLayout), end.Format(shortDateLayout)),
	}
}

// CurrentPeriod returns the pay period containing today.
func (c *Calculator) CurrentPeriod() PayrollPeriod {
	return c.PeriodFor(c.now())
}

// PeriodsOverlapping returns the distinct periods intersecting [start, end],
// in chronological order. It is empty when end is before start.
//
// The walk starts at start and advances by the policy stride, capped at the
// next period boundary so that the short period starting late in February
// is never stepped over.
func (c *Calculator) PeriodsOverlapping(start, end time.Time) []PayrollPeriod {
	periods := []PayrollPeriod{}
	current := c.Date(start)
	last := c.Date(end)
	seen := map[string]bool{}

	stride := c.Policy.OverlapStrideDays
	if stride < 1 {
		stride = 1
	}

	for !current.After(last) {
		p := c.PeriodFor(current)
		if !seen[p.ID()] {
			seen[p.ID()] = true
			periods = append(periods, p)
		}
		next := current.AddDate(0, 0, stride)
		if boundary := c.nextBoundary(current, p); boundary.Before(next) {
			next = boundary
		}
		current = next
	}
	return periods
}

// nextBoundary is the first date after d that may belong to a different
// period. Days after SecondCloseDay resolve to the period ending on
// SecondCloseDay, so for them the boundary is the 1st of the next month.
func (c *Calculator) nextBoundary(d time.Time, p PayrollPeriod) time.Time {
	if after := p.PeriodEnd.AddDate(0, 0, 1); after.After(d) {
		return after
	}
	return time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
}

// IsWithinCutoff reports whether entryDate's calendar date is on or before
// cutoffDate's.
func (c *Calculator) IsWithinCutoff(entryDate, cutoffDate time.Time) bool {
	return !c.Date(entryDate).After(c.Date(cutoffDate))
}

// AdjustForWeekend moves a Saturday back to Friday and a Sunday forward to
// Monday. Weekdays are returned unchanged.
func AdjustForWeekend(d time.Time) time.Time {
	if !cal.IsWeekend(d) {
		return d
	}
	if d.Weekday() == time.Saturday {
		return d.AddDate(0, 0, -1)
	}
	return d.AddDate(0, 0, 1)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
