// Package report renders time entries and their payroll roll-up as CSV,
// JSON, Markdown or an Excel workbook.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// Supported output formats.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
)

// Report is a titled set of entries with their daily groups and summary.
type Report struct {
	Title    string                   `json:"title"`
	Days     []payroll.DailyTimeEntry `json:"days"`
	Summary  payroll.PayrollSummary   `json:"summary"`
	Location *time.Location           `json:"-"`
}

// New groups and summarizes entries in loc.
func New(title string, entries []model.TimeEntry, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	return Report{
		Title:    title,
		Days:     payroll.GroupByDate(entries, loc),
		Summary:  payroll.Summarize(entries, loc),
		Location: loc,
	}
}

// Write renders r to w in one of the text formats.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatXLSX:
		return fmt.Errorf("format %q needs an output file (--out)", format)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, md or xlsx)", format)
	}
}

// entryRow is the flat per-entry view shared by the CSV and XLSX writers.
type entryRow struct {
	Date         string
	PunchIn      string
	PunchOut     string
	LunchMinutes int64
	Total        float64
	Standard     float64
	Overtime     float64
	PayPeriodID  string
	Notes        string
}

var entryHeader = []string{
	"date", "punch_in", "punch_out", "lunch_minutes",
	"total_hours", "standard_hours", "overtime_hours", "pay_period_id", "notes",
}

// rows flattens the report oldest day first, the natural order for a sheet.
func (r Report) rows() []entryRow {
	var out []entryRow
	for i := len(r.Days) - 1; i >= 0; i-- {
		day := r.Days[i]
		for _, e := range day.Entries {
			total, standard, overtime := e.Hours()
			row := entryRow{
				Date:         day.Date.Format(timecalc.DateLayout),
				PunchIn:      e.PunchInTime.In(r.Location).Format(time.RFC3339),
				LunchMinutes: lunchMinutes(e),
				Total:        total,
				Standard:     standard,
				Overtime:     overtime,
			}
			if e.PunchOutTime != nil {
				row.PunchOut = e.PunchOutTime.In(r.Location).Format(time.RFC3339)
			}
			if e.PayPeriodID != nil {
				row.PayPeriodID = *e.PayPeriodID
			}
			if e.Notes != nil {
				row.Notes = *e.Notes
			}
			out = append(out, row)
		}
	}
	return out
}

func lunchMinutes(e model.TimeEntry) int64 {
	if e.LunchBreakStart == nil || e.LunchBreakEnd == nil || !e.LunchBreakEnd.After(*e.LunchBreakStart) {
		return 0
	}
	return int64(e.LunchBreakEnd.Sub(*e.LunchBreakStart).Minutes())
}

// WriteCSV writes one line per entry, oldest first.
func WriteCSV(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, strings.Join(entryHeader, ",")); err != nil {
		return err
	}
	for _, row := range r.rows() {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%d,%.2f,%.2f,%.2f,%s,%s\n",
			row.Date,
			csvEscape(row.PunchIn),
			csvEscape(row.PunchOut),
			row.LunchMinutes,
			row.Total,
			row.Standard,
			row.Overtime,
			csvEscape(row.PayPeriodID),
			csvEscape(row.Notes),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteMarkdown writes the day groups most recent first, then the summary.
func WriteMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	if r.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", r.Title)
	}
	if len(r.Days) == 0 {
		b.WriteString("No entries found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, day := range r.Days {
		fmt.Fprintf(&b, "## %s (%s)\n\n", day.Date.Format("Mon Jan 2, 2006"), timecalc.FormatDuration(day.TotalHours))
		b.WriteString("| In | Out | Lunch | Standard | Overtime | Notes |\n")
		b.WriteString("|----|-----|-------|----------|----------|-------|\n")
		for _, e := range day.Entries {
			_, standard, overtime := e.Hours()
			out := "ongoing"
			if e.PunchOutTime != nil {
				out = timecalc.FormatClock(e.PunchOutTime.In(r.Location))
			}
			notes := ""
			if e.Notes != nil {
				notes = strings.ReplaceAll(*e.Notes, "|", `\|`)
			}
			fmt.Fprintf(&b, "| %s | %s | %dm | %s | %s | %s |\n",
				timecalc.FormatClock(e.PunchInTime.In(r.Location)),
				out,
				lunchMinutes(e),
				timecalc.FormatDuration(standard),
				timecalc.FormatDuration(overtime),
				notes,
			)
		}
		b.WriteString("\n")
	}

	s := r.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Standard: %s\n", timecalc.FormatDuration(s.TotalStandardHours))
	fmt.Fprintf(&b, "- Overtime: %s\n", timecalc.FormatDuration(s.TotalOvertimeHours))
	fmt.Fprintf(&b, "- Total: %s\n", timecalc.FormatDuration(s.TotalHours))
	fmt.Fprintf(&b, "- Days worked: %d\n", s.DayCount)
	fmt.Fprintf(&b, "- Average per day: %s\n", timecalc.FormatDuration(s.AverageHoursPerDay))

	_, err := io.WriteString(w, b.String())
	return err
}
