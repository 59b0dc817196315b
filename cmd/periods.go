package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/timecalc"
)

var (
	periodsFrom string
	periodsTo   string
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the pay periods overlapping a date range",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

func init() {
	periodsCmd.Flags().StringVar(&periodsFrom, "from", "", "Start date (YYYY-MM-DD); required")
	periodsCmd.Flags().StringVar(&periodsTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	_ = periodsCmd.MarkFlagRequired("from")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	from, err := timecalc.ParseDate(periodsFrom, app.loc)
	if err != nil {
		return err
	}
	to, err := app.dateOrToday(periodsTo)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	periods := app.calc.PeriodsOverlapping(from, to)
	if len(periods) == 0 {
		fmt.Fprintln(out, "No pay periods in range.")
		return nil
	}
	for _, p := range periods {
		fmt.Fprintf(out, "%-32s paid %s  cutoff %s\n",
			p.PeriodName,
			p.ActualPaymentDate.Format(timecalc.DateLayout),
			p.CutoffDate.Format(timecalc.DateLayout))
	}
	return nil
}
