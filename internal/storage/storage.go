package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crewdeck/crewclock/internal/config"
	"github.com/crewdeck/crewclock/internal/model"
)

var (
	// ErrNoActiveEntry is returned when an operation needs an open entry.
	ErrNoActiveEntry = errors.New("no active time entry")
	// ErrAlreadyPunchedIn is returned when punching in with an entry still open.
	ErrAlreadyPunchedIn = errors.New("already punched in")
)

// activeLookbackDays bounds the search for an open entry, so a shift left
// open across midnight (or a forgotten punch-out) is still found.
const activeLookbackDays = 7

// BaseDir returns the root data directory (~/.crewclock/data).
func BaseDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format("2006-01-02"), Entries: []model.TimeEntry{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// FindActiveEntry searches the day files of the last week, most recent
// first, for an entry without a punch-out. It returns the entry, the day
// file date it was found on, or a nil entry if nothing is open.
func FindActiveEntry(base string, now time.Time) (*model.TimeEntry, time.Time, error) {
	for i := 0; i < activeLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := LoadDay(base, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		for j := len(df.Entries) - 1; j >= 0; j-- {
			if df.Entries[j].IsOpen() {
				return &df.Entries[j], day, nil
			}
		}
	}
	return nil, time.Time{}, nil
}

// LastPunchIn returns the most recent punch-in time within the last week,
// or nil if there is none.
func LastPunchIn(base string, now time.Time) (*time.Time, error) {
	for i := 0; i < activeLookbackDays; i++ {
		df, err := LoadDay(base, now.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		var latest *time.Time
		for j := range df.Entries {
			in := df.Entries[j].PunchInTime
			if latest == nil || in.After(*latest) {
				latest = &in
			}
		}
		if latest != nil {
			return latest, nil
		}
	}
	return nil, nil
}

// UpdateEntry replaces or appends an entry in the DayFile for the given date.
func UpdateEntry(base string, day time.Time, entry model.TimeEntry) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, e := range df.Entries {
		if e.ID == entry.ID {
			df.Entries[i] = entry
			return SaveDay(base, day, df)
		}
	}
	df.Entries = append(df.Entries, entry)
	return SaveDay(base, day, df)
}

// RemoveEntry deletes the entry with the given ID from the DayFile for the
// given date and reports whether it was there.
func RemoveEntry(base string, day time.Time, id string) (bool, error) {
	df, err := LoadDay(base, day)
	if err != nil {
		return false, err
	}
	for i, e := range df.Entries {
		if e.ID == id {
			df.Entries = append(df.Entries[:i], df.Entries[i+1:]...)
			return true, SaveDay(base, day, df)
		}
	}
	return false, nil
}

// LoadRange loads all entries whose day file falls in [from, to] inclusive.
func LoadRange(base string, from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for d := first; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, df.Entries...)
	}
	return entries, nil
}

// AssignPayPeriod stamps periodID on every closed entry in [from, to] that
// has no pay period yet and returns how many entries it changed. Entries
// already assigned, to this or any other period, are left alone, so the
// call is safe to repeat.
func AssignPayPeriod(base string, from, to time.Time, periodID string) (int, error) {
	assigned := 0
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for d := first; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return assigned, err
		}
		changed := 0
		for i := range df.Entries {
			e := &df.Entries[i]
			if e.IsOpen() || e.PayPeriodID != nil {
				continue
			}
			id := periodID
			e.PayPeriodID = &id
			changed++
		}
		if changed == 0 {
			continue
		}
		if err := SaveDay(base, d, df); err != nil {
			return assigned, err
		}
		assigned += changed
	}
	return assigned, nil
}
