package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

var inNotes string

var inCmd = &cobra.Command{
	Use:     "in",
	Aliases: []string{"start"},
	Short:   "Punch in and start a new time entry",
	Args:    cobra.NoArgs,
	RunE:    runIn,
}

func init() {
	inCmd.Flags().StringVar(&inNotes, "notes", "", "Optional notes for the shift")
}

func runIn(cmd *cobra.Command, args []string) error {
	now := app.now()

	active, _, err := storage.FindActiveEntry(app.base, now)
	if err != nil {
		return err
	}
	if active != nil {
		return fmt.Errorf("%w since %s %s", storage.ErrAlreadyPunchedIn,
			timecalc.DateKey(active.PunchInTime, app.loc), timecalc.FormatClock(active.PunchInTime.In(app.loc)))
	}

	entry := model.TimeEntry{
		ID:          timecalc.GenerateID(),
		UserID:      app.cfg.Employee.UserID,
		PunchInTime: now,
		Source:      "manual",
	}
	if inNotes != "" {
		entry.Notes = &inNotes
	}

	if err := storage.UpdateEntry(app.base, now, entry); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Punched in at %s\n", timecalc.FormatClock(now))
	return nil
}
