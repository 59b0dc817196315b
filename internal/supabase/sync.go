package supabase

import (
	"fmt"
	"io"
	"time"

	"github.com/crewdeck/crewclock/internal/logging"
	"github.com/crewdeck/crewclock/internal/model"
	"github.com/crewdeck/crewclock/internal/storage"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// SourceSupabase marks entries imported from the hosted table.
const SourceSupabase = "supabase"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base     string
	Location *time.Location
	DryRun   bool
	// From and To are the requested sync window. Optional; the local
	// search for already-synced rows always covers them.
	From, To time.Time
	// Out receives one progress line per row; nil discards them.
	Out io.Writer
}

// movedLookbackDays widens the local search around the rows' punch-ins, so
// a row whose punch-in was edited onto another day is still matched.
const movedLookbackDays = 7

// parseTimestamp parses a PostgREST timestamp. timestamptz columns carry an
// offset; plain timestamp columns are read in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999-07",
		"2006-01-02 15:04:05-07",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

func parseOptional(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseTimestamp(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// shouldSkip returns true for rows that cannot become entries.
func shouldSkip(row EntryRow) bool {
	return row.ID == "" || row.PunchInTime == ""
}

// MapRowToEntry converts a remote row into a local TimeEntry. Hour fields
// are taken as stored; they are not recomputed.
func MapRowToEntry(row EntryRow, loc *time.Location) (model.TimeEntry, error) {
	if loc == nil {
		loc = time.UTC
	}
	in, err := parseTimestamp(row.PunchInTime, loc)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing punch_in_time: %w", err)
	}
	out, err := parseOptional(row.PunchOutTime, loc)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing punch_out_time: %w", err)
	}
	lunchStart, err := parseOptional(row.LunchBreakStart, loc)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing lunch_break_start: %w", err)
	}
	lunchEnd, err := parseOptional(row.LunchBreakEnd, loc)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing lunch_break_end: %w", err)
	}

	return model.TimeEntry{
		ID:              timecalc.GenerateID(),
		ExternalID:      row.ID,
		UserID:          row.UserID,
		PunchInTime:     in,
		PunchOutTime:    out,
		LunchBreakStart: lunchStart,
		LunchBreakEnd:   lunchEnd,
		TotalHours:      row.TotalHours,
		StandardHours:   row.StandardHours,
		OvertimeHours:   row.OvertimeHours,
		Notes:           row.Notes,
		IsEdited:        row.IsEdited,
		PayPeriodID:     row.PayPeriodID,
		Source:          SourceSupabase,
	}, nil
}

// localEntry is a synced entry and the day file it lives in.
type localEntry struct {
	entry model.TimeEntry
	day   time.Time
}

// indexByExternalID loads every synced entry in the day files from..to.
func indexByExternalID(base string, from, to time.Time) (map[string]localEntry, error) {
	index := map[string]localEntry{}
	for d := timecalc.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := storage.LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		for _, e := range df.Entries {
			if e.ExternalID != "" {
				index[e.ExternalID] = localEntry{entry: e, day: d}
			}
		}
	}
	return index, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func unchanged(local, remote model.TimeEntry) bool {
	return local.PunchInTime.Equal(remote.PunchInTime) &&
		sameTime(local.PunchOutTime, remote.PunchOutTime) &&
		sameTime(local.LunchBreakStart, remote.LunchBreakStart) &&
		sameTime(local.LunchBreakEnd, remote.LunchBreakEnd) &&
		sameFloat(local.TotalHours, remote.TotalHours) &&
		sameFloat(local.StandardHours, remote.StandardHours) &&
		sameFloat(local.OvertimeHours, remote.OvertimeHours) &&
		sameString(local.Notes, remote.Notes) &&
		sameString(local.PayPeriodID, remote.PayPeriodID) &&
		local.IsEdited == remote.IsEdited
}

// mappedRow pairs a remote row with its local form.
type mappedRow struct {
	row   EntryRow
	entry model.TimeEntry
}

// SyncEntries stores remote rows in the local day files. Rows already
// present (matched by external id) are skipped when unchanged and updated
// otherwise; a row whose punch-in moved to another day is moved with it.
// Repeated runs never duplicate entries.
//
// Pay period assignment is one-way: a local pay_period_id is never cleared
// or replaced by a sync.
func SyncEntries(rows []EntryRow, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var mapped []mappedRow
	from, to := opts.From, opts.To
	for _, row := range rows {
		if shouldSkip(row) {
			continue
		}
		entry, err := MapRowToEntry(row, loc)
		if err != nil {
			logging.Logger.WithError(err).WithField("remote_id", row.ID).Warn("Cannot map remote entry")
			fmt.Fprintf(out, "  ! Error mapping %s: %v\n", row.ID, err)
			result.Errors++
			continue
		}
		mapped = append(mapped, mappedRow{row: row, entry: entry})
		if from.IsZero() || entry.PunchInTime.Before(from) {
			from = entry.PunchInTime
		}
		if to.IsZero() || entry.PunchInTime.After(to) {
			to = entry.PunchInTime
		}
	}
	if len(mapped) == 0 {
		return result, nil
	}

	index, err := indexByExternalID(opts.Base,
		from.In(loc).AddDate(0, 0, -movedLookbackDays),
		timecalc.EndOfDay(to.In(loc).AddDate(0, 0, movedLookbackDays)))
	if err != nil {
		return result, fmt.Errorf("loading local entries: %w", err)
	}

	for _, m := range mapped {
		row, entry := m.row, m.entry
		day := entry.PunchInTime
		label := fmt.Sprintf("%s %s", timecalc.DateKey(day, loc), timecalc.FormatClock(day))

		found, ok := index[row.ID]
		moved := false
		if ok {
			entry.ID = found.entry.ID
			if found.entry.PayPeriodID != nil {
				entry.PayPeriodID = found.entry.PayPeriodID
			}
			moved = timecalc.DateKey(found.day, loc) != timecalc.DateKey(day, loc)
			if !moved && unchanged(found.entry, entry) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", label)
				result.Skipped++
				continue
			}
		}

		if !opts.DryRun {
			if err := storage.UpdateEntry(opts.Base, day, entry); err != nil {
				logging.Logger.WithError(err).WithField("remote_id", row.ID).Error("Cannot save entry")
				fmt.Fprintf(out, "  ! Error saving %s: %v\n", label, err)
				result.Errors++
				continue
			}
			if moved {
				if _, err := storage.RemoveEntry(opts.Base, found.day, found.entry.ID); err != nil {
					logging.Logger.WithError(err).WithField("remote_id", row.ID).Error("Cannot remove moved entry")
					fmt.Fprintf(out, "  ! Error removing old copy of %s: %v\n", label, err)
					result.Errors++
					continue
				}
			}
			index[row.ID] = localEntry{entry: entry, day: timecalc.DateIn(day, loc)}
		}

		total, _, _ := entry.Hours()
		switch {
		case moved:
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s, moved from %s)\n",
				label, timecalc.FormatDuration(total), timecalc.DateKey(found.day, loc))
			result.Updated++
		case ok:
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", label, timecalc.FormatDuration(total))
			result.Updated++
		default:
			fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", label, timecalc.FormatDuration(total))
			result.Imported++
		}
	}

	return result, nil
}
