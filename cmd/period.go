package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var periodDate string

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Show the pay period containing a date",
	Args:  cobra.NoArgs,
	RunE:  runPeriod,
}

func init() {
	periodCmd.Flags().StringVar(&periodDate, "date", "", "Date (YYYY-MM-DD); defaults to today")
}

func runPeriod(cmd *cobra.Command, args []string) error {
	d, err := app.dateOrToday(periodDate)
	if err != nil {
		return err
	}
	printPeriod(cmd.OutOrStdout(), app.calc.PeriodFor(d))
	return nil
}

// loadPeriodEntries returns the entries punched in during p. Day files are
// keyed by the zone they were written in, so one day either side is read
// and the result filtered by punch-in date in the current zone.
func loadPeriodEntries(p payroll.PayrollPeriod) ([]model.TimeEntry, error) {
	from := p.PeriodStart.AddDate(0, 0, -1)
	to := timecalc.EndOfDay(p.PeriodEnd.AddDate(0, 0, 1))
	entries, err := storage.LoadRange(app.base, from, to)
	if err != nil {
		return nil, err
	}
	return p.Select(entries), nil
}

func printPeriod(w io.Writer, p payroll.PayrollPeriod) {
	fmt.Fprintf(w, "Period:   %s\n", p.PeriodName)
	fmt.Fprintf(w, "ID:       %s\n", p.ID())
	fmt.Fprintf(w, "Pay date: %s", p.PaymentDate.Format(timecalc.DateLayout))
	if !p.ActualPaymentDate.Equal(p.PaymentDate) {
		fmt.Fprintf(w, " (moved to %s)", p.ActualPaymentDate.Format("Mon 2006-01-02"))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cutoff:   %s\n", p.CutoffDate.Format(timecalc.DateLayout))
}
