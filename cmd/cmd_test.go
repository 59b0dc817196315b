package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crewdeck/crewclock/internal/config"
	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/report"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/supabase"
)

// setupHome points crewclock at a fresh home directory and returns it.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	t.Setenv("LOG_LEVEL", "error")
	return home
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(body), 0o600))
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// seed stores a closed shift punched in at in and lasting hours.
func seed(t *testing.T, home string, in time.Time, hours float64) {
	t.Helper()
	e := model.TimeEntry{ID: in.Format(time.RFC3339), PunchInTime: in, Source: "manual"}
	payroll.CloseEntry(&e, in.Add(time.Duration(hours*float64(time.Hour))), payroll.DefaultPolicy())
	require.NoError(t, storage.UpdateEntry(filepath.Join(home, "data"), in, e))
}

func TestCloseEntryEndsOpenLunch(t *testing.T) {
	in := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	lunch := in.Add(4 * time.Hour)
	out := in.Add(5 * time.Hour)
	e := model.TimeEntry{PunchInTime: in, LunchBreakStart: &lunch}

	closeEntry(&e, out, payroll.DefaultPolicy())

	require.NotNil(t, e.LunchBreakEnd)
	assert.True(t, e.LunchBreakEnd.Equal(out))
	total, _, _ := e.Hours()
	assert.Equal(t, 4.0, total)
}

func TestPunchClock(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "in", "--notes", "anchor watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Punched in at")

	_, err = execute(t, "in")
	assert.ErrorIs(t, err, storage.ErrAlreadyPunchedIn)

	_, err = execute(t, "lunch", "end")
	assert.ErrorIs(t, err, errLunchNotStarted)

	_, err = execute(t, "lunch", "start")
	require.NoError(t, err)
	_, err = execute(t, "lunch", "start")
	assert.ErrorIs(t, err, errLunchStarted)

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "On the clock:")
	assert.Contains(t, out, "Lunch: in progress")

	_, err = execute(t, "lunch", "end")
	require.NoError(t, err)

	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ongoing")
	assert.Contains(t, out, "anchor watch")

	out, err = execute(t, "out")
	require.NoError(t, err)
	assert.Contains(t, out, "On the clock: 00:00:")
	assert.Contains(t, out, "Worked 0h (0h standard, 0h overtime)")

	_, err = execute(t, "out")
	assert.ErrorIs(t, err, storage.ErrNoActiveEntry)

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not punched in.")
	assert.Contains(t, out, "Pay period:")
}

func TestPeriodCommand(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "period", "--date", "2026-06-10")
	require.NoError(t, err)
	assert.Contains(t, out, "May 27, 2026 - Jun 11, 2026")
	assert.Contains(t, out, "ID:       2026-05-27_2026-06-11")
	assert.Contains(t, out, "Pay date: 2026-06-16\n")
	assert.Contains(t, out, "Cutoff:   2026-06-11")

	out, err = execute(t, "period", "--date", "2026-07-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay date: 2026-08-01 (moved to Fri 2026-07-31)")

	_, err = execute(t, "period", "--date", "20/07/2026")
	assert.Error(t, err)
}

func TestPeriodsCommand(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "periods", "--from", "2026-02-26", "--to", "2026-03-13")
	require.NoError(t, err)
	assert.Contains(t, out, "Feb 12, 2026 - Feb 26, 2026")
	assert.Contains(t, out, "Feb 27, 2026 - Mar 11, 2026")
	assert.Contains(t, out, "Mar 12, 2026 - Mar 26, 2026")

	out, err = execute(t, "periods", "--from", "2026-03-13", "--to", "2026-02-26")
	require.NoError(t, err)
	assert.Contains(t, out, "No pay periods in range.")

	_, err = execute(t, "periods")
	assert.Error(t, err, "--from is required")
}

func TestTimezoneFlag(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "--timezone", "Mars/Olympus", "period")
	assert.Error(t, err)

	_, err = execute(t, "--timezone", "America/Chicago", "period", "--date", "2026-06-10")
	assert.NoError(t, err)
}

func TestPayIsIdempotent(t *testing.T) {
	home := setupHome(t)
	seed(t, home, time.Date(2026, 6, 12, 8, 0, 0, 0, time.UTC), 8)
	seed(t, home, time.Date(2026, 6, 26, 8, 0, 0, 0, time.UTC), 10)
	seed(t, home, time.Date(2026, 6, 27, 8, 0, 0, 0, time.UTC), 8)

	out, err := execute(t, "pay", "--date", "2026-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "2 local entries marked as paid")

	out, err = execute(t, "pay", "--date", "2026-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "0 local entries marked as paid")
}

func TestSummaryFlagsLateEntries(t *testing.T) {
	home := setupHome(t)
	// Apr 27 - May 11 is paid Sat May 16, moved to Fri May 15: cutoff May 10.
	seed(t, home, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC), 10)
	seed(t, home, time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC), 6)

	out, err := execute(t, "summary", "--date", "2026-05-04")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay period Apr 27, 2026 - May 11, 2026")
	assert.Contains(t, out, "Standard            14h")
	assert.Contains(t, out, "Overtime            2h")
	assert.Contains(t, out, "Total               16h")
	assert.Contains(t, out, "Days worked         2")
	assert.Contains(t, out, "1 entries after the 2026-05-10 cutoff")
	assert.Contains(t, out, "late: 2026-05-11 8:00 AM")
}

func TestSummaryFiltersByPunchInDateInZone(t *testing.T) {
	home := setupHome(t)
	// 21:00 Jun 11 in Chicago, stored in the UTC day file of Jun 12.
	seed(t, home, time.Date(2026, 6, 12, 2, 0, 0, 0, time.UTC), 5)
	seed(t, home, time.Date(2026, 6, 15, 13, 0, 0, 0, time.UTC), 8)
	// 22:00 Jun 26 in Chicago, stored in the UTC day file of Jun 27.
	seed(t, home, time.Date(2026, 6, 27, 3, 0, 0, 0, time.UTC), 2)

	out, err := execute(t, "--timezone", "America/Chicago", "summary", "--date", "2026-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Total               10h")
	assert.Contains(t, out, "Days worked         2")
	assert.NotContains(t, out, "late:")

	out, err = execute(t, "summary", "--date", "2026-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Total               13h")
}

func TestExport(t *testing.T) {
	home := setupHome(t)
	seed(t, home, time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), 9)

	out, err := execute(t, "export", "--date", "2026-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "date,punch_in,punch_out")
	assert.Contains(t, out, "2026-06-15,2026-06-15T08:00:00Z,2026-06-15T17:00:00Z,0,9.00,8.00,1.00")

	_, err = execute(t, "export", "--format", report.FormatXLSX)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "june.xlsx")
	_, err = execute(t, "export", "--date", "2026-06-15", "--format", report.FormatXLSX, "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.EntriesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	mdPath := filepath.Join(t.TempDir(), "june.md")
	_, err = execute(t, "export", "--date", "2026-06-15", "--format", report.FormatMarkdown, "--out", mdPath)
	require.NoError(t, err)
	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Jun 12, 2026 - Jun 26, 2026")
}

func TestSyncAndRemotePay(t *testing.T) {
	home := setupHome(t)

	var patched int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			out := "2026-06-15T17:00:00Z"
			std, ot := 8.0, 1.0
			total := std + ot
			_ = json.NewEncoder(w).Encode([]supabase.EntryRow{{
				ID:            "remote-1",
				UserID:        "crew-1",
				PunchInTime:   "2026-06-15T08:00:00Z",
				PunchOutTime:  &out,
				TotalHours:    &total,
				StandardHours: &std,
				OvertimeHours: &ot,
			}})
		case http.MethodPatch:
			patched++
			_, _ = w.Write([]byte(`[{"id":"remote-1"}]`))
		}
	}))
	defer srv.Close()

	writeConfig(t, home, `
employee:
  user_id: crew-1
supabase:
  url: `+srv.URL+`
  api_key: anon-key
`)

	out, err := execute(t, "sync", "--from", "2026-06-12", "--to", "2026-06-26")
	require.NoError(t, err)
	assert.Contains(t, out, "1 imported")

	out, err = execute(t, "sync", "--from", "2026-06-12", "--to", "2026-06-26")
	require.NoError(t, err)
	assert.Contains(t, out, "1 skipped")

	out, err = execute(t, "pay", "--date", "2026-06-15", "--remote")
	require.NoError(t, err)
	assert.Contains(t, out, "1 local entries marked as paid")
	assert.Contains(t, out, "1 remote entries marked as paid")
	assert.Equal(t, 1, patched)

	_, err = execute(t, "sync", "--from", "2026-06-26", "--to", "2026-06-12")
	assert.Error(t, err)
}

func TestRemoteCommandsNeedConfig(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "sync")
	assert.ErrorIs(t, err, errNoUserID)

	_, err = execute(t, "remind")
	assert.ErrorIs(t, err, errNoSchedule)
}

func TestRemoteCommandsNeedSupabase(t *testing.T) {
	home := setupHome(t)
	writeConfig(t, home, "employee:\n  user_id: crew-1\n")

	_, err := execute(t, "sync")
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)
}

func TestRemindOnce(t *testing.T) {
	home := setupHome(t)
	writeConfig(t, home, `
employee:
  scheduled_start: "00:00"
reminder:
  skip_holidays: false
`)

	out, err := execute(t, "remind")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
