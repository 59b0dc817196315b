package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var (
	errLunchStarted    = errors.New("lunch break already started")
	errLunchNotStarted = errors.New("no lunch break in progress")
)

var lunchCmd = &cobra.Command{
	Use:   "lunch",
	Short: "Record the lunch break of the open entry",
}

var lunchStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the lunch break",
	Args:  cobra.NoArgs,
	RunE:  runLunchStart,
}

var lunchEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the lunch break",
	Args:  cobra.NoArgs,
	RunE:  runLunchEnd,
}

func init() {
	lunchCmd.AddCommand(lunchStartCmd)
	lunchCmd.AddCommand(lunchEndCmd)
}

func runLunchStart(cmd *cobra.Command, args []string) error {
	now := app.now()

	active, activeDay, err := storage.FindActiveEntry(app.base, now)
	if err != nil {
		return err
	}
	if active == nil {
		return storage.ErrNoActiveEntry
	}
	if active.LunchBreakStart != nil {
		return errLunchStarted
	}

	active.LunchBreakStart = &now
	if err := storage.UpdateEntry(app.base, activeDay, *active); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Lunch started at %s\n", timecalc.FormatClock(now))
	return nil
}

func runLunchEnd(cmd *cobra.Command, args []string) error {
	now := app.now()

	active, activeDay, err := storage.FindActiveEntry(app.base, now)
	if err != nil {
		return err
	}
	if active == nil {
		return storage.ErrNoActiveEntry
	}
	if active.LunchBreakStart == nil || active.LunchBreakEnd != nil {
		return errLunchNotStarted
	}

	active.LunchBreakEnd = &now
	if err := storage.UpdateEntry(app.base, activeDay, *active); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Lunch ended at %s (%s)\n",
		timecalc.FormatClock(now), timecalc.ElapsedTime(*active.LunchBreakStart, now))
	return nil
}
