package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var summaryDate string

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"report"},
	Short:   "Summarize the hours of a pay period",
	Args:    cobra.NoArgs,
	RunE:    runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Any date in the period (YYYY-MM-DD); defaults to today")
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, err := app.dateOrToday(summaryDate)
	if err != nil {
		return err
	}
	period := app.calc.PeriodFor(d)

	entries, err := loadPeriodEntries(period)
	if err != nil {
		return err
	}
	s := payroll.Summarize(entries, app.loc)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pay period %s\n", period.PeriodName)
	fmt.Fprintln(out, "--------------------------------")
	fmt.Fprintf(out, "%-20s%s\n", "Standard", timecalc.FormatDuration(s.TotalStandardHours))
	fmt.Fprintf(out, "%-20s%s\n", "Overtime", timecalc.FormatDuration(s.TotalOvertimeHours))
	fmt.Fprintln(out, "--------------------------------")
	fmt.Fprintf(out, "%-20s%s\n", "Total", timecalc.FormatDuration(s.TotalHours))
	fmt.Fprintf(out, "%-20s%d\n", "Days worked", s.DayCount)
	fmt.Fprintf(out, "%-20s%s\n", "Average per day", timecalc.FormatDuration(s.AverageHoursPerDay))

	// Entries after the cutoff miss this period's payroll run.
	var late []string
	for _, e := range entries {
		if !app.calc.IsWithinCutoff(e.PunchInTime, period.CutoffDate) {
			late = append(late, fmt.Sprintf("%s %s",
				timecalc.DateKey(e.PunchInTime, app.loc), timecalc.FormatClock(e.PunchInTime.In(app.loc))))
		}
	}
	if len(late) > 0 {
		fmt.Fprintf(out, "\n%d entries after the %s cutoff (paid next run):\n",
			len(late), period.CutoffDate.Format(timecalc.DateLayout))
		for _, l := range late {
			fmt.Fprintf(out, "  late: %s\n", l)
		}
	}
	return nil
}
