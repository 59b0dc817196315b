// Package payroll derives bi-monthly pay periods and aggregates time entries
// into daily groups and payroll summaries.
//
// Everything in this package is pure: no I/O, no shared state. Dates are
// always interpreted in the location held by the Calculator or passed in
// by the caller, never in the host's local zone.
package payroll

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Policy holds the day-of-month boundaries of the two pay periods per month.
//
// The first period runs from SecondCloseDay+1 of the previous month through
// FirstCloseDay and is paid on FirstPayDay of the same month. The second
// runs from FirstCloseDay+1 through SecondCloseDay and is paid on
// SecondPayDay of the following month.
type Policy struct {
	FirstCloseDay       int     `yaml:"first_close_day" validate:"min=1,max=26"`
	SecondCloseDay      int     `yaml:"second_close_day" validate:"gtfield=FirstCloseDay,max=27"`
	FirstPayDay         int     `yaml:"first_pay_day" validate:"gtfield=FirstCloseDay,max=28"`
	SecondPayDay        int     `yaml:"second_pay_day" validate:"min=1,max=28"`
	CutoffDays          int     `yaml:"cutoff_days" validate:"min=0,max=14"`
	OverlapStrideDays   int     `yaml:"overlap_stride_days" validate:"min=1,max=31"`
	StandardHoursPerDay float64 `yaml:"standard_hours_per_day" validate:"gt=0,lte=24"`
	ReminderGraceMins   int     `yaml:"reminder_grace_minutes" validate:"min=0,max=240"`
}

// DefaultPolicy is the fleet's payroll calendar: 27th–11th paid on the 16th,
// 12th–26th paid on the 1st, cutoff five days before payment.
func DefaultPolicy() Policy {
	return Policy{
		FirstCloseDay:       11,
		SecondCloseDay:      26,
		FirstPayDay:         16,
		SecondPayDay:        1,
		CutoffDays:          5,
		OverlapStrideDays:   15,
		StandardHoursPerDay: 8,
		ReminderGraceMins:   10,
	}
}

var validate = validator.New()

// Validate reports whether the policy describes a usable calendar.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid payroll policy: %w", err)
	}
	return nil
}

// ReminderGrace is how long after the scheduled start a missing punch-in
// becomes reminder-worthy.
func (p Policy) ReminderGrace() time.Duration {
	return time.Duration(p.ReminderGraceMins) * time.Minute
}
