package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/reminder"
)

var errNoSchedule = errors.New("employee.scheduled_start is not set in the config file")

var remindWatch bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Remind the crew member to punch in after the scheduled start",
	Args:  cobra.NoArgs,
	RunE:  runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindWatch, "watch", false, "Keep running and check on the configured schedule")
}

func runRemind(cmd *cobra.Command, args []string) error {
	scheduled, err := app.cfg.ScheduledStart()
	if err != nil {
		return err
	}
	if scheduled == nil {
		return errNoSchedule
	}

	w := &reminder.Watcher{
		Base:         app.base,
		Scheduled:    scheduled,
		Grace:        app.cfg.Payroll.ReminderGrace(),
		Location:     app.loc,
		SkipHolidays: app.cfg.Reminder.SkipHolidays,
		Notifier:     reminder.LogNotifier{},
	}

	if remindWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return w.Run(ctx, app.cfg.Reminder.Schedule)
	}

	sent, err := w.Check(cmd.Context())
	if err != nil {
		return err
	}
	if sent {
		fmt.Fprintln(cmd.OutOrStdout(), "Reminder sent.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No reminder due.")
	}
	return nil
}
