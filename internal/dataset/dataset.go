// Package dataset loads and indexes the authoritative course catalog. The
// catalog is a JSON array produced by the scrape pipeline; it is read-only
// and reloaded wholesale when the file changes.
package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	appLog "github.com/napthedev/vinuni-course-planner/internal/log"
	"github.com/napthedev/vinuni-course-planner/internal/model"
)

// Catalog is an immutable, indexed view of the loaded course records.
type Catalog struct {
	records   []model.CourseRecord
	bySection map[string]model.CourseRecord
}

// Load reads a courses JSON file into a Catalog. Records with a duplicate
// section code violate the dataset's uniqueness invariant; the first
// occurrence wins and later ones are dropped with a log line.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("dataset path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a Catalog from raw JSON.
func Parse(data []byte) (*Catalog, error) {
	var records []model.CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	cat := &Catalog{
		records:   make([]model.CourseRecord, 0, len(records)),
		bySection: make(map[string]model.CourseRecord, len(records)),
	}

	dropped := 0
	for _, rec := range records {
		if rec.Section == "" {
			dropped++
			continue
		}
		if _, exists := cat.bySection[rec.Section]; exists {
			dropped++
			appLog.Error("dataset: duplicate section code", errors.New("section code not unique"),
				"section", rec.Section, "course", rec.Course)
			continue
		}
		for _, ws := range rec.Schedule {
			if !model.KnownDay(ws.Day) {
				appLog.Info("dataset: unrecognized day name, slot will be ignored downstream",
					"section", rec.Section, "day", ws.Day)
			}
		}
		cat.bySection[rec.Section] = rec
		cat.records = append(cat.records, rec)
	}

	if dropped > 0 {
		appLog.Info("dataset loaded with drops", "records", len(cat.records), "dropped", dropped)
	} else {
		appLog.Info("dataset loaded", "records", len(cat.records))
	}
	return cat, nil
}

// Records returns all records in dataset order.
func (c *Catalog) Records() []model.CourseRecord {
	return c.records
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// BySection looks up a record by its section code.
func (c *Catalog) BySection(section string) (model.CourseRecord, bool) {
	rec, ok := c.bySection[section]
	return rec, ok
}

// MatchesQuery reports whether a record matches a free-text search over
// course code, title, section code, and instructor name.
func MatchesQuery(rec model.CourseRecord, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Course), q) ||
		strings.Contains(strings.ToLower(rec.CourseTitle), q) ||
		strings.Contains(strings.ToLower(rec.Section), q) ||
		strings.Contains(strings.ToLower(rec.Instructor), q)
}
