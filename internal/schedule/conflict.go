package schedule

import "github.com/napthedev/vinuni-course-planner/internal/model"

// rangesOverlap tests two half-open minute intervals. Touching endpoints
// (end1 == start2) do not overlap, so back-to-back classes never conflict.
func rangesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// RecordsConflict reports whether any slot of a overlaps any slot of b on
// the same day. Unparseable slots are skipped, so a TBA section never
// conflicts with anything.
func RecordsConflict(a, b model.CourseRecord) bool {
	slotsA := ParseSlots(a)
	slotsB := ParseSlots(b)

	for _, sa := range slotsA {
		for _, sb := range slotsB {
			if sa.Day != sb.Day {
				continue
			}
			if rangesOverlap(sa.StartMinutes(), sa.EndMinutes(), sb.StartMinutes(), sb.EndMinutes()) {
				return true
			}
		}
	}
	return false
}

// Conflicts computes all pairwise conflicts for the given records and
// returns a symmetric map of section code to the section codes it
// conflicts with. Every record gets an entry, conflict-free ones an empty
// list.
//
// The pairwise scan is O(n² · slots²); n is a student's course load, so a
// full recomputation on every working-set mutation is the intended
// strategy. There is no incremental update.
func Conflicts(records []model.CourseRecord) map[string][]string {
	conflicts := make(map[string][]string, len(records))
	for _, rec := range records {
		conflicts[rec.Section] = []string{}
	}

	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if RecordsConflict(records[i], records[j]) {
				a, b := records[i].Section, records[j].Section
				conflicts[a] = append(conflicts[a], b)
				conflicts[b] = append(conflicts[b], a)
			}
		}
	}
	return conflicts
}

// Annotate converts raw records into selection entries carrying freshly
// computed conflict annotations.
func Annotate(records []model.CourseRecord) []model.SelectionEntry {
	conflicts := Conflicts(records)

	entries := make([]model.SelectionEntry, 0, len(records))
	for _, rec := range records {
		with := conflicts[rec.Section]
		entries = append(entries, model.SelectionEntry{
			CourseRecord:  rec,
			HasConflict:   len(with) > 0,
			ConflictsWith: with,
		})
	}
	return entries
}
