package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/supabase"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var (
	syncFrom   string
	syncTo     string
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync entries from the hosted time_entries table",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "Start date (YYYY-MM-DD); defaults to the current pay period start")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print planned operations without writing")
}

func runSync(cmd *cobra.Command, args []string) error {
	now := app.now()
	var from, to time.Time

	if syncFrom != "" {
		d, err := timecalc.ParseDate(syncFrom, app.loc)
		if err != nil {
			return err
		}
		from = d
	} else {
		from = app.calc.PeriodFor(now).PeriodStart
	}
	to = timecalc.EndOfDay(now)
	if syncTo != "" {
		d, err := timecalc.ParseDate(syncTo, app.loc)
		if err != nil {
			return err
		}
		to = timecalc.EndOfDay(d)
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", timecalc.DateKey(to, app.loc), timecalc.DateKey(from, app.loc))
	}

	if app.cfg.Employee.UserID == "" {
		return errNoUserID
	}
	client, err := supabase.NewClient(cmd.Context(), app.cfg.Supabase)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if syncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing entries (%s → %s)%s...\n\n",
		timecalc.DateKey(from, app.loc), timecalc.DateKey(to, app.loc), dryTag)

	rows, err := client.ListEntries(cmd.Context(), app.cfg.Employee.UserID, from, to)
	if err != nil {
		return fmt.Errorf("fetching remote entries: %w", err)
	}

	result, err := supabase.SyncEntries(rows, supabase.SyncOptions{
		Base:     app.base,
		Location: app.loc,
		DryRun:   syncDryRun,
		From:     from,
		To:       to,
		Out:      out,
	})
	if err != nil {
		return fmt.Errorf("sync error: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return fmt.Errorf("%d entries could not be synced", result.Errors)
	}
	return nil
}
