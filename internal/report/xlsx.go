package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// Sheet names in the exported workbook.
const (
	EntriesSheet = "Entries"
	SummarySheet = "Summary"
)

// WriteXLSX saves r as a workbook with an Entries sheet (one row per entry)
// and a Summary sheet (one row per day followed by the period totals).
func WriteXLSX(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", EntriesSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	header := make([]any, len(entryHeader))
	for i, h := range entryHeader {
		header[i] = h
	}
	if err := setRow(f, EntriesSheet, 1, header...); err != nil {
		return err
	}
	for i, row := range r.rows() {
		err := setRow(f, EntriesSheet, i+2,
			row.Date, row.PunchIn, row.PunchOut, row.LunchMinutes,
			row.Total, row.Standard, row.Overtime, row.PayPeriodID, row.Notes)
		if err != nil {
			return err
		}
	}

	if err := setRow(f, SummarySheet, 1, "date", "entries", "total_hours", "standard_hours", "overtime_hours"); err != nil {
		return err
	}
	rowNum := 2
	for i := len(r.Days) - 1; i >= 0; i-- {
		day := r.Days[i]
		err := setRow(f, SummarySheet, rowNum,
			day.Date.Format(timecalc.DateLayout), len(day.Entries),
			payroll.Round2(day.TotalHours), payroll.Round2(day.StandardHours), payroll.Round2(day.OvertimeHours))
		if err != nil {
			return err
		}
		rowNum++
	}

	rowNum++
	s := r.Summary
	totals := [][]any{
		{"Title", r.Title},
		{"Standard hours", s.TotalStandardHours},
		{"Overtime hours", s.TotalOvertimeHours},
		{"Total hours", s.TotalHours},
		{"Days worked", s.DayCount},
		{"Average hours per day", s.AverageHoursPerDay},
	}
	for _, t := range totals {
		if err := setRow(f, SummarySheet, rowNum, t...); err != nil {
			return err
		}
		rowNum++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("error writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
