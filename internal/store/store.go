// Package store persists the working set and filter state as JSON files in
// a state directory. Persistence is best effort: a missing file is "no
// prior state", and callers are expected to log and continue on save
// failures rather than surface them.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/napthedev/vinuni-course-planner/internal/model"
	"github.com/napthedev/vinuni-course-planner/internal/schedule"
)

const (
	selectionFile = "selection.json"
	filtersFile   = "filters.json"
)

// Store reads and writes planner state under a single directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// LoadSelection reads the persisted working set. Conflict annotations are
// never stored, so the result is plain records; the caller revalidates
// them against the master dataset and recomputes conflicts. A missing file
// yields an empty set and no error.
func (s *Store) LoadSelection() ([]model.CourseRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, selectionFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var records []model.CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveSelection writes the working set atomically.
func (s *Store) SaveSelection(records []model.CourseRecord) error {
	if records == nil {
		records = []model.CourseRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(selectionFile, data)
}

// LoadFilter reads the persisted filter state. The second return value is
// false when no prior state exists.
func (s *Store) LoadFilter() (schedule.FilterState, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filtersFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return schedule.FilterState{}, false, nil
		}
		return schedule.FilterState{}, false, err
	}

	var f schedule.FilterState
	if err := json.Unmarshal(data, &f); err != nil {
		return schedule.FilterState{}, false, err
	}
	f.Normalize()
	return f, true, nil
}

// SaveFilter writes the filter state atomically.
func (s *Store) SaveFilter(f schedule.FilterState) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(filtersFile, data)
}

// writeFile writes data via a temp file + rename so a crash mid-write
// leaves the previous state intact.
func (s *Store) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.dir, name))
}
