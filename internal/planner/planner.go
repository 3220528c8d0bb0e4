// Package planner owns the student's working set and filter state. All
// mutations go through whole-value replacement followed by a full
// recomputation of conflict annotations, so derived state is never stale.
// Persistence is an injected, best-effort side effect: load on init, save
// on change, failures logged and swallowed.
package planner

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/napthedev/vinuni-course-planner/internal/dataset"
	"github.com/napthedev/vinuni-course-planner/internal/ics"
	appLog "github.com/napthedev/vinuni-course-planner/internal/log"
	"github.com/napthedev/vinuni-course-planner/internal/model"
	"github.com/napthedev/vinuni-course-planner/internal/schedule"
	"github.com/napthedev/vinuni-course-planner/internal/store"
)

var (
	// ErrUnknownSection is returned when a section code is not in the catalog.
	ErrUnknownSection = errors.New("unknown section code")
	// ErrSectionSelected is returned when the section is already selected.
	ErrSectionSelected = errors.New("section already selected")
	// ErrCourseSelected is returned when another section of the same course
	// is already in the working set.
	ErrCourseSelected = errors.New("another section of this course is already selected")
	// ErrNotSelected is returned when removing a section that is not selected.
	ErrNotSelected = errors.New("section is not in the working set")
	// ErrExportBlocked is returned when the working set is empty or has
	// conflicting entries.
	ErrExportBlocked = errors.New("working set is empty or has conflicts")
)

// Planner is the single logical writer over the working set. The mutex
// exists only because HTTP handlers call in concurrently; the engine
// itself is pure and recomputed from scratch on every mutation.
type Planner struct {
	mu sync.RWMutex

	catalog *dataset.Catalog
	store   *store.Store
	gen     *ics.Generator

	working []model.CourseRecord
	entries []model.SelectionEntry
	filter  schedule.FilterState
}

// New builds a Planner over the given catalog and restores any persisted
// state. Load failures leave the working set empty; restored records that
// no longer match the master dataset byte-for-byte are dropped.
func New(catalog *dataset.Catalog, st *store.Store, loc *time.Location) *Planner {
	p := &Planner{
		catalog: catalog,
		store:   st,
		gen:     ics.NewGenerator(loc),
		filter:  schedule.DefaultFilter(),
	}
	p.restore()
	return p
}

func (p *Planner) restore() {
	stored, err := p.store.LoadSelection()
	if err != nil {
		appLog.Error("planner: failed to load persisted selection, starting empty", err)
		stored = nil
	}

	valid, dropped := p.validateStored(stored)
	p.working = valid
	p.entries = schedule.Annotate(p.working)
	if dropped > 0 {
		appLog.Info("planner: dropped stale persisted records", "dropped", dropped, "kept", len(valid))
	}

	filter, ok, err := p.store.LoadFilter()
	if err != nil {
		appLog.Error("planner: failed to load persisted filters, using defaults", err)
	} else if ok {
		p.filter = filter
	}

	appLog.Info("planner ready", "selected", len(p.working), "filter_active", p.filter.Active())
}

// validateStored keeps only stored records that are field-for-field equal
// to the current master record with the same section code.
func (p *Planner) validateStored(stored []model.CourseRecord) ([]model.CourseRecord, int) {
	valid := make([]model.CourseRecord, 0, len(stored))
	dropped := 0
	for _, rec := range stored {
		master, ok := p.catalog.BySection(rec.Section)
		if !ok || !master.Equal(rec) {
			dropped++
			continue
		}
		valid = append(valid, master)
	}
	return valid, dropped
}

// Add puts the section into the working set. A section can be added once,
// and only one section per course code may be selected at a time.
func (p *Planner) Add(section string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.catalog.BySection(section)
	if !ok {
		return ErrUnknownSection
	}
	for _, sel := range p.working {
		if sel.Section == section {
			return ErrSectionSelected
		}
		if sel.Course == rec.Course {
			return ErrCourseSelected
		}
	}

	next := append(append([]model.CourseRecord{}, p.working...), rec)
	p.replace(next)
	appLog.Info("planner: section added", "section", section, "course", rec.Course, "selected", len(p.working))
	return nil
}

// Remove drops the section from the working set.
func (p *Planner) Remove(section string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := make([]model.CourseRecord, 0, len(p.working))
	found := false
	for _, rec := range p.working {
		if rec.Section == section {
			found = true
			continue
		}
		next = append(next, rec)
	}
	if !found {
		return ErrNotSelected
	}

	p.replace(next)
	appLog.Info("planner: section removed", "section", section, "selected", len(p.working))
	return nil
}

// Clear empties the working set.
func (p *Planner) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replace(nil)
	appLog.Info("planner: selection cleared")
}

// replace swaps in the new working set, recomputes all conflict
// annotations, and persists. Callers hold the write lock.
func (p *Planner) replace(next []model.CourseRecord) {
	p.working = next
	p.entries = schedule.Annotate(p.working)

	if err := p.store.SaveSelection(p.working); err != nil {
		appLog.Error("planner: failed to persist selection", err)
	}
}

// ReplaceCatalog swaps in a freshly loaded catalog (periodic dataset
// reload) and revalidates the working set against it.
func (p *Planner) ReplaceCatalog(catalog *dataset.Catalog) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.catalog = catalog
	valid, dropped := p.validateStored(p.working)
	p.replace(valid)
	if dropped > 0 {
		appLog.Info("planner: catalog reload dropped stale selections", "dropped", dropped)
	}
}

// Entries returns the working set with current conflict annotations.
func (p *Planner) Entries() []model.SelectionEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.SelectionEntry{}, p.entries...)
}

// IsSelected reports whether the section is in the working set.
func (p *Planner) IsSelected(section string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, rec := range p.working {
		if rec.Section == section {
			return true
		}
	}
	return false
}

// IsCourseSelected reports whether any section of the course is selected.
func (p *Planner) IsCourseSelected(course string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, rec := range p.working {
		if rec.Course == course {
			return true
		}
	}
	return false
}

// TotalCredits sums the credit values of the working set.
func (p *Planner) TotalCredits() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return schedule.TotalCredits(p.working)
}

// CanExport reports whether the working set may be exported: non-empty and
// free of conflicts.
func (p *Planner) CanExport() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canExportLocked()
}

func (p *Planner) canExportLocked() bool {
	if len(p.entries) == 0 {
		return false
	}
	for _, e := range p.entries {
		if e.HasConflict {
			return false
		}
	}
	return true
}

// ExportICS renders the working set as a calendar file. Export is refused
// while the set is empty or conflicting.
func (p *Planner) ExportICS() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.canExportLocked() {
		return "", ErrExportBlocked
	}
	return p.gen.Generate(p.entries), nil
}

// ExportCSV renders the working set as CSV.
func (p *Planner) ExportCSV() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return dataset.ExportCSV(p.working)
}

// CourseListText renders the plain-text course list, one
// "<title> - <course code> - <section code>" line per entry.
func (p *Planner) CourseListText() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	lines := make([]string, 0, len(p.working))
	for _, rec := range p.working {
		lines = append(lines, rec.CourseTitle+" - "+rec.Course+" - "+rec.Section)
	}
	return strings.Join(lines, "\n")
}

// Filter returns the current filter state.
func (p *Planner) Filter() schedule.FilterState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// SetFilter replaces and persists the filter state.
func (p *Planner) SetFilter(f schedule.FilterState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f.Normalize()
	p.filter = f
	if err := p.store.SaveFilter(p.filter); err != nil {
		appLog.Error("planner: failed to persist filters", err)
	}
}

// ApplyPreset activates a named filter preset; an empty or unknown key
// resets to the defaults.
func (p *Planner) ApplyPreset(key string) schedule.FilterState {
	f := schedule.ApplyPreset(key)
	p.SetFilter(f)
	return f
}

// SearchCourses returns catalog records matching the query and the active
// filter. With HideConflicts set, candidates that would conflict with the
// current working set are omitted.
func (p *Planner) SearchCourses(query string) []model.CourseRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	results := make([]model.CourseRecord, 0)
	for _, rec := range p.catalog.Records() {
		if !dataset.MatchesQuery(rec, query) {
			continue
		}
		if !p.filter.Matches(rec) {
			continue
		}
		if p.filter.HideConflicts && p.conflictsWithWorkingSet(rec) {
			continue
		}
		results = append(results, rec)
	}
	return results
}

func (p *Planner) conflictsWithWorkingSet(rec model.CourseRecord) bool {
	for _, sel := range p.working {
		if sel.Section == rec.Section {
			continue
		}
		if schedule.RecordsConflict(sel, rec) {
			return true
		}
	}
	return false
}
