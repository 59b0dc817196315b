package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var (
	listToday  bool
	listWeek   bool
	listPeriod bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries grouped by day",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries (default)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
	listCmd.Flags().BoolVar(&listPeriod, "period", false, "Show the current pay period's entries")
	listCmd.MarkFlagsMutuallyExclusive("today", "week", "period")
}

func runList(cmd *cobra.Command, args []string) error {
	now := app.now()

	if listPeriod {
		entries, err := loadPeriodEntries(app.calc.PeriodFor(now))
		if err != nil {
			return err
		}
		printDays(cmd.OutOrStdout(), payroll.GroupByDate(entries, app.loc))
		return nil
	}

	var from, to time.Time
	switch {
	case listWeek:
		from, to = timecalc.WeekRange(now)
	default:
		// Default to today (covers --today and the bare command).
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	entries, err := storage.LoadRange(app.base, from, to)
	if err != nil {
		return err
	}

	printDays(cmd.OutOrStdout(), payroll.GroupByDate(entries, app.loc))
	return nil
}

// printDays prints each day, most recent first, with its entries and totals.
func printDays(w io.Writer, days []payroll.DailyTimeEntry) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	for _, day := range days {
		fmt.Fprintf(w, "%s  %s (%s standard, %s overtime)\n",
			day.Date.Format("Mon 2006-01-02"),
			timecalc.FormatDuration(day.TotalHours),
			timecalc.FormatDuration(day.StandardHours),
			timecalc.FormatDuration(day.OvertimeHours))

		for _, e := range day.Entries {
			in := timecalc.FormatClock(e.PunchInTime.In(app.loc))
			outStr := "ongoing"
			durStr := ""
			if e.PunchOutTime != nil {
				outStr = timecalc.FormatClock(e.PunchOutTime.In(app.loc))
				total, _, _ := e.Hours()
				durStr = fmt.Sprintf(" (%s)", timecalc.FormatDuration(total))
			}
			notes := ""
			if e.Notes != nil {
				notes = "  " + *e.Notes
			}
			paid := ""
			if e.PayPeriodID != nil {
				paid = "  [paid]"
			}
			fmt.Fprintf(w, "  %s–%s%s%s%s\n", in, outStr, durStr, paid, notes)
		}
	}
}
