package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open entry and the current pay period",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := app.now()
	out := cmd.OutOrStdout()

	active, _, err := storage.FindActiveEntry(app.base, now)
	if err != nil {
		return err
	}

	if active != nil {
		in := active.PunchInTime.In(app.loc)
		elapsed := int64(now.Sub(in).Seconds())
		fmt.Fprintln(out, "On the clock:")
		fmt.Fprintf(out, "  Since: %s %s\n", timecalc.DateKey(in, app.loc), timecalc.FormatClock(in))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
		switch {
		case active.LunchBreakStart != nil && active.LunchBreakEnd == nil:
			fmt.Fprintf(out, "  Lunch: in progress (%s)\n", timecalc.ElapsedTime(*active.LunchBreakStart, now))
		case active.LunchBreakStart != nil:
			fmt.Fprintf(out, "  Lunch: %s\n", timecalc.ElapsedTime(*active.LunchBreakStart, *active.LunchBreakEnd))
		}
	} else {
		df, err := storage.LoadDay(app.base, now)
		if err != nil {
			return err
		}
		summary := payroll.Summarize(df.Entries, app.loc)
		fmt.Fprintln(out, "Not punched in.")
		fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(summary.TotalHours))
	}

	period := app.calc.CurrentPeriod()
	fmt.Fprintf(out, "Pay period: %s (paid %s)\n", period.PeriodName, period.ActualPaymentDate.Format(timecalc.DateLayout))
	return nil
}
