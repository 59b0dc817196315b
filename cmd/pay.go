package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/logging"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/supabase"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var errNoUserID = errors.New("employee.user_id is not set in the config file")

var (
	payDate   string
	payRemote bool
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Mark the closed entries of a pay period as paid",
	Long: `pay assigns the pay period id to every closed entry of the period that
has no pay period yet. Entries already assigned are left alone, so running
it twice changes nothing the second time.`,
	Args: cobra.NoArgs,
	RunE: runPay,
}

func init() {
	payCmd.Flags().StringVar(&payDate, "date", "", "Any date in the period (YYYY-MM-DD); defaults to today")
	payCmd.Flags().BoolVar(&payRemote, "remote", false, "Also mark the entries in the hosted table")
}

func runPay(cmd *cobra.Command, args []string) error {
	d, err := app.dateOrToday(payDate)
	if err != nil {
		return err
	}
	period := app.calc.PeriodFor(d)
	id := period.ID()
	out := cmd.OutOrStdout()

	n, err := storage.AssignPayPeriod(app.base, period.PeriodStart, period.PeriodEnd, id)
	if err != nil {
		return err
	}
	logging.Logger.WithField("period", id).WithField("entries", n).Debug("Assigned local entries")
	fmt.Fprintf(out, "Pay period %s: %d local entries marked as paid\n", period.PeriodName, n)

	if !payRemote {
		return nil
	}
	if app.cfg.Employee.UserID == "" {
		return errNoUserID
	}
	client, err := supabase.NewClient(cmd.Context(), app.cfg.Supabase)
	if err != nil {
		return err
	}
	n, err = client.AssignPayPeriod(cmd.Context(), app.cfg.Employee.UserID,
		period.PeriodStart, timecalc.EndOfDay(period.PeriodEnd), id)
	if err != nil {
		return fmt.Errorf("marking remote entries: %w", err)
	}
	fmt.Fprintf(out, "Pay period %s: %d remote entries marked as paid\n", period.PeriodName, n)
	return nil
}
