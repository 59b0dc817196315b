package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/crewdeck/crewclock/internal/payroll"
)

// ErrInvalidConfig is returned when the config file parses but fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// HomeEnv overrides the ~/.crewclock directory.
const HomeEnv = "CREWCLOCK_HOME"

// Config is the root configuration, stored in ~/.crewclock/config.yaml.
type Config struct {
	Timezone string         `yaml:"timezone"`
	LogLevel string         `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Employee EmployeeConfig `yaml:"employee"`
	Payroll  payroll.Policy `yaml:"payroll"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// EmployeeConfig identifies the crew member this installation clocks for.
type EmployeeConfig struct {
	UserID string `yaml:"user_id"`
	// ScheduledStart is "HH:MM"; empty disables punch reminders.
	ScheduledStart string `yaml:"scheduled_start" validate:"omitempty,datetime=15:04"`
}

// SupabaseConfig points at the fleet's hosted time_entries table.
type SupabaseConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	APIKey string `yaml:"api_key"`
	Table  string `yaml:"table"`
}

// ReminderConfig drives `crewclock remind --watch`.
type ReminderConfig struct {
	Schedule     string `yaml:"schedule"`
	SkipHolidays bool   `yaml:"skip_holidays"`
}

const (
	DefaultTimezone         = "UTC"
	DefaultLogLevel         = "info"
	DefaultTable            = "time_entries"
	DefaultReminderSchedule = "@every 1m"
)

func defaultConfig() Config {
	return Config{
		Timezone: DefaultTimezone,
		LogLevel: DefaultLogLevel,
		Payroll:  payroll.DefaultPolicy(),
		Supabase: SupabaseConfig{Table: DefaultTable},
		Reminder: ReminderConfig{Schedule: DefaultReminderSchedule, SkipHolidays: true},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# crewclock configuration
#
# All settings are optional. Edit this file to customise crewclock.

# IANA timezone used for every calendar-date decision (pay periods, daily
# grouping, reminders). Overridable with --timezone.
timezone: UTC

# trace, debug, info, warn, error. LOG_LEVEL in the environment wins.
log_level: info

employee:
  # Remote user id; used for sync and stamped on new entries.
  user_id: ""
  # Scheduled shift start (HH:MM). Leave empty to disable punch reminders.
  scheduled_start: ""

# Pay calendar. The defaults pay the 27th-11th on the 16th and the
# 12th-26th on the 1st of the next month; weekend pay dates move to the
# nearest weekday.
payroll:
  first_close_day: 11
  second_close_day: 26
  first_pay_day: 16
  second_pay_day: 1
  cutoff_days: 5
  overlap_stride_days: 15
  standard_hours_per_day: 8
  reminder_grace_minutes: 10

supabase:
  # Project URL, e.g. https://xyzcompany.supabase.co. Empty disables sync.
  url: ""
  api_key: ""
  table: time_entries

reminder:
  # Cron spec for the reminder watcher.
  schedule: "@every 1m"
  # Do not remind on weekends or US federal holidays.
  skip_holidays: true
`

// Dir returns the crewclock home directory.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".crewclock"), nil
}

func configFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file, creating it with annotated defaults on first
// run. Keys missing from the file keep their defaults.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return defaultConfig(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing yaml: %w\nTip: delete the file to regenerate defaults", err)
	}
	if cfg.Supabase.Table == "" {
		cfg.Supabase.Table = DefaultTable
	}
	if cfg.Reminder.Schedule == "" {
		cfg.Reminder.Schedule = DefaultReminderSchedule
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field formats, the payroll policy and the timezone.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ScheduledStart parses Employee.ScheduledStart; nil when unset.
func (c Config) ScheduledStart() (*payroll.ClockTime, error) {
	if c.Employee.ScheduledStart == "" {
		return nil, nil
	}
	ct, err := payroll.ParseClockTime(c.Employee.ScheduledStart)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
