package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

func record(course, section string, slots ...model.WeeklySlot) model.CourseRecord {
	return model.CourseRecord{
		Course:   course,
		Section:  section,
		Schedule: slots,
	}
}

func slot(day, timeText string) model.WeeklySlot {
	return model.WeeklySlot{Day: day, Time: timeText}
}

func TestRecordsConflict(t *testing.T) {
	tests := []struct {
		name string
		a, b model.CourseRecord
		want bool
	}{
		{
			name: "touching boundary does not conflict",
			// [540,600) and [600,660) in minutes.
			a:    record("A", "A1", slot("Monday", "9:00AM to 10:00AM")),
			b:    record("B", "B1", slot("Monday", "10:00AM to 11:00AM")),
			want: false,
		},
		{
			name: "five minute overlap conflicts",
			// [540,605) and [600,660).
			a:    record("A", "A1", slot("Monday", "9:00AM to 10:05AM")),
			b:    record("B", "B1", slot("Monday", "10:00AM to 11:00AM")),
			want: true,
		},
		{
			name: "same time different day",
			a:    record("A", "A1", slot("Monday", "9:00AM to 10:00AM")),
			b:    record("B", "B1", slot("Tuesday", "9:00AM to 10:00AM")),
			want: false,
		},
		{
			name: "containment conflicts",
			a:    record("A", "A1", slot("Wednesday", "9:00AM to 12:00PM")),
			b:    record("B", "B1", slot("Wednesday", "10:00AM to 10:30AM")),
			want: true,
		},
		{
			name: "any slot pair is enough",
			a:    record("A", "A1", slot("Monday", "8:00AM to 9:00AM"), slot("Thursday", "1:00PM to 2:00PM")),
			b:    record("B", "B1", slot("Tuesday", "8:00AM to 9:00AM"), slot("Thursday", "1:30PM to 2:30PM")),
			want: true,
		},
		{
			name: "TBA never conflicts",
			a:    record("A", "A1"),
			b:    record("B", "B1", slot("Monday", "9:00AM to 10:00AM")),
			want: false,
		},
		{
			name: "malformed slot is skipped",
			a:    record("A", "A1", slot("Monday", "whenever")),
			b:    record("B", "B1", slot("Monday", "9:00AM to 10:00AM")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordsConflict(tt.a, tt.b))
			assert.Equal(t, tt.want, RecordsConflict(tt.b, tt.a), "conflict must be symmetric")
		})
	}
}

func TestConflictsSymmetry(t *testing.T) {
	records := []model.CourseRecord{
		record("A", "A1", slot("Monday", "9:00AM to 10:30AM")),
		record("B", "B1", slot("Monday", "10:00AM to 11:00AM")),
		record("C", "C1", slot("Monday", "10:45AM to 12:00PM")),
		record("D", "D1", slot("Friday", "9:00AM to 10:00AM")),
		record("E", "E1"),
	}

	conflicts := Conflicts(records)
	require.Len(t, conflicts, len(records))

	for section, others := range conflicts {
		for _, other := range others {
			assert.Contains(t, conflicts[other], section,
				"%s lists %s but not vice versa", section, other)
		}
	}

	assert.ElementsMatch(t, []string{"B1"}, conflicts["A1"])
	assert.ElementsMatch(t, []string{"A1", "C1"}, conflicts["B1"])
	assert.ElementsMatch(t, []string{"B1"}, conflicts["C1"])
	assert.Empty(t, conflicts["D1"])
	assert.Empty(t, conflicts["E1"])
}

func TestAnnotate(t *testing.T) {
	records := []model.CourseRecord{
		record("A", "A1", slot("Monday", "9:00AM to 10:30AM")),
		record("B", "B1", slot("Monday", "10:00AM to 11:00AM")),
		record("C", "C1", slot("Tuesday", "10:00AM to 11:00AM")),
	}

	entries := Annotate(records)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].HasConflict)
	assert.Equal(t, []string{"B1"}, entries[0].ConflictsWith)
	assert.True(t, entries[1].HasConflict)
	assert.False(t, entries[2].HasConflict)
	assert.Empty(t, entries[2].ConflictsWith)
}

// After removing a record, no remaining annotation may reference it.
func TestAnnotateAfterRemoval(t *testing.T) {
	records := []model.CourseRecord{
		record("A", "A1", slot("Monday", "9:00AM to 10:30AM")),
		record("B", "B1", slot("Monday", "10:00AM to 11:00AM")),
	}

	entries := Annotate(records)
	require.True(t, entries[0].HasConflict)

	entries = Annotate(records[:1])
	require.Len(t, entries, 1)
	assert.False(t, entries[0].HasConflict)
	assert.Empty(t, entries[0].ConflictsWith)
}
