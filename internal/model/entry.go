package model

import "time"

// TimeEntry is a single punch-in/punch-out record for one crew member.
// Hour fields are computed when the entry is closed; nil means "not set"
// and is treated as zero by every aggregation.
type TimeEntry struct {
	ID              string     `json:"id"`
	ExternalID      string     `json:"external_id,omitempty"`
	UserID          string     `json:"user_id"`
	PunchInTime     time.Time  `json:"punch_in_time"`
	PunchOutTime    *time.Time `json:"punch_out_time"`
	LunchBreakStart *time.Time `json:"lunch_break_start"`
	LunchBreakEnd   *time.Time `json:"lunch_break_end"`
	TotalHours      *float64   `json:"total_hours"`
	StandardHours   *float64   `json:"standard_hours"`
	OvertimeHours   *float64   `json:"overtime_hours"`
	Notes           *string    `json:"notes"`
	IsEdited        bool       `json:"is_edited"`
	PayPeriodID     *string    `json:"pay_period_id"`
	Source          string     `json:"source"`
}

// IsOpen reports whether the crew member is still clocked in on this entry.
func (e TimeEntry) IsOpen() bool {
	return e.PunchOutTime == nil
}

// Hours returns the total, standard and overtime hours with nil read as zero.
func (e TimeEntry) Hours() (total, standard, overtime float64) {
	if e.TotalHours != nil {
		total = *e.TotalHours
	}
	if e.StandardHours != nil {
		standard = *e.StandardHours
	}
	if e.OvertimeHours != nil {
		overtime = *e.OvertimeHours
	}
	return total, standard, overtime
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date    string      `json:"date"`
	Entries []TimeEntry `json:"entries"`
}
