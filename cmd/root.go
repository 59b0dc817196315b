package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/config"
	"github.com/crewdeck/crewclock/internal/logging"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

const appName = "crewclock"

var rootTimezone string

// env is the state every command shares, built once per invocation.
type env struct {
	cfg  config.Config
	loc  *time.Location
	calc *payroll.Calculator
	base string
}

var app env

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "crewclock – punch clock and payroll periods for yacht crews",
	Long: `crewclock records crew working hours, splits them into standard and
overtime, and groups them into the fleet's bi-monthly pay periods.
Entries are stored as JSON day files in ~/.crewclock/data and can be
synced from the fleet's hosted time_entries table.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootTimezone, "timezone", "", "IANA timezone overriding the configured one (e.g. America/New_York)")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(lunchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(remindCmd)
}

func loadEnv(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rootTimezone != "" {
		cfg.Timezone = rootTimezone
	}
	logging.Init(appName, cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	base, err := storage.BaseDir()
	if err != nil {
		return err
	}

	app = env{
		cfg:  cfg,
		loc:  loc,
		calc: payroll.NewCalculator(cfg.Payroll, loc),
		base: base,
	}
	return nil
}

// now returns the current time in the configured zone.
func (e env) now() time.Time {
	return time.Now().In(e.loc)
}

// dateOrToday parses a --date flag value, defaulting to today.
func (e env) dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return e.now(), nil
	}
	return timecalc.ParseDate(s, e.loc)
}
