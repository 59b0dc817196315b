package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var outNotes string

var outCmd = &cobra.Command{
	Use:     "out",
	Aliases: []string{"stop"},
	Short:   "Punch out and close the open time entry",
	Args:    cobra.NoArgs,
	RunE:    runOut,
}

func init() {
	outCmd.Flags().StringVar(&outNotes, "notes", "", "Append notes to the entry")
}

func runOut(cmd *cobra.Command, args []string) error {
	now := app.now()

	active, activeDay, err := storage.FindActiveEntry(app.base, now)
	if err != nil {
		return err
	}
	if active == nil {
		return storage.ErrNoActiveEntry
	}

	if outNotes != "" {
		appendNotes(active, outNotes)
	}
	closeEntry(active, now, app.cfg.Payroll)

	// A shift crossing midnight stays in the day file of its punch-in.
	if err := storage.UpdateEntry(app.base, activeDay, *active); err != nil {
		return err
	}

	total, standard, overtime := active.Hours()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Punched out at %s. On the clock: %s\n",
		timecalc.FormatClock(now), timecalc.FormatDurationHHMMSS(int64(now.Sub(active.PunchInTime).Seconds())))
	fmt.Fprintf(out, "Worked %s (%s standard, %s overtime)\n",
		timecalc.FormatDuration(total), timecalc.FormatDuration(standard), timecalc.FormatDuration(overtime))
	return nil
}

// closeEntry ends a lunch still in progress at the punch-out time, then
// closes the entry.
func closeEntry(e *model.TimeEntry, out time.Time, p payroll.Policy) {
	if e.LunchBreakStart != nil && e.LunchBreakEnd == nil {
		end := out
		e.LunchBreakEnd = &end
	}
	payroll.CloseEntry(e, out, p)
}

func appendNotes(e *model.TimeEntry, notes string) {
	if e.Notes != nil && *e.Notes != "" {
		merged := *e.Notes + "\n" + notes
		e.Notes = &merged
		return
	}
	e.Notes = &notes
}
