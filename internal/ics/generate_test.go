package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

var testZone = time.FixedZone("ICT", 7*3600)

func testGenerator() *Generator {
	g := NewGenerator(testZone)
	g.Now = func() time.Time {
		return time.Date(2026, time.January, 15, 12, 0, 0, 0, testZone)
	}
	return g
}

func mondayCourse() model.SelectionEntry {
	return model.SelectionEntry{
		CourseRecord: model.CourseRecord{
			Course:         "MANA1011",
			CourseTitle:    "Principles of Management",
			Section:        "IMSSP261",
			Dates:          "2/9/2026 to 6/5/2026",
			Credits:        "3.00",
			Instructor:     "Jane Doe",
			DeliveryMethod: "Classroom",
			Schedule: []model.WeeklySlot{
				{Day: "Monday", Time: "9:00AM-10:15AM"},
			},
		},
	}
}

// unfold removes RFC 5545 soft line breaks.
func unfold(s string) string {
	return strings.ReplaceAll(s, "\r\n ", "")
}

func TestGenerateSingleWeeklyEvent(t *testing.T) {
	out := testGenerator().Generate([]model.SelectionEntry{mondayCourse()})
	content := unfold(out)
	lines := strings.Split(content, "\r\n")

	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])

	// 2026-02-09 is itself a Monday, so the anchor is the range start.
	assert.Contains(t, lines, "DTSTART;TZID=Asia/Ho_Chi_Minh:20260209T090000")
	assert.Contains(t, lines, "DTEND;TZID=Asia/Ho_Chi_Minh:20260209T101500")
	assert.Contains(t, lines, "RRULE:FREQ=WEEKLY;BYDAY=MO;UNTIL=20260605T235959Z")
	assert.Contains(t, lines, "SUMMARY:Principles of Management")
	assert.Contains(t, lines, "DESCRIPTION:Section: IMSSP261\\nInstructor: Jane Doe")
	assert.Contains(t, lines, "LOCATION:Classroom")
	assert.Contains(t, lines, "UID:IMSSP261-Monday-900AM-1015AM@vinuni-course-planner")
	assert.Contains(t, lines, "DTSTAMP:20260115T120000")
	assert.Contains(t, lines, "TRIGGER:-PT15M")

	// Exactly one event.
	assert.Equal(t, 1, strings.Count(content, "BEGIN:VEVENT"))
}

func TestGenerateAnchorAfterRangeStart(t *testing.T) {
	entry := mondayCourse()
	// Range starts on a Wednesday (2026-02-11); first Friday is 2026-02-13.
	entry.Dates = "2/11/2026 to 6/5/2026"
	entry.Schedule = []model.WeeklySlot{{Day: "Friday", Time: "1:00PM to 2:30PM"}}

	out := unfold(testGenerator().Generate([]model.SelectionEntry{entry}))
	assert.Contains(t, out, "DTSTART;TZID=Asia/Ho_Chi_Minh:20260213T130000")
	assert.Contains(t, out, "BYDAY=FR")
}

func TestGenerateTimezoneBlock(t *testing.T) {
	out := unfold(testGenerator().Generate(nil))

	for _, line := range []string{
		"BEGIN:VTIMEZONE",
		"TZID:Asia/Ho_Chi_Minh",
		"TZOFFSETFROM:+0700",
		"TZOFFSETTO:+0700",
		"TZNAME:ICT",
		"END:VTIMEZONE",
		"X-WR-TIMEZONE:Asia/Ho_Chi_Minh",
	} {
		assert.Contains(t, out, line)
	}
}

func TestGenerateSkipsBadRecords(t *testing.T) {
	noDates := mondayCourse()
	noDates.Dates = "TBD"

	noTime := mondayCourse()
	noTime.Section = "IMSSP262"
	noTime.Schedule = []model.WeeklySlot{{Day: "Monday", Time: "arranged"}}

	badDay := mondayCourse()
	badDay.Section = "IMSSP263"
	badDay.Schedule = []model.WeeklySlot{{Day: "Someday", Time: "9:00AM to 10:00AM"}}

	out := testGenerator().Generate([]model.SelectionEntry{noDates, noTime, badDay, mondayCourse()})
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"),
		"unparseable records are skipped, the valid one still exports")
}

func TestGenerateEscaping(t *testing.T) {
	entry := mondayCourse()
	entry.CourseTitle = `Data; Structures, and "Algorithms" \ Lab`
	entry.Instructor = "Doe, Jane"

	out := unfold(testGenerator().Generate([]model.SelectionEntry{entry}))
	assert.Contains(t, out, `SUMMARY:Data\; Structures\, and "Algorithms" \\ Lab`)
	assert.Contains(t, out, `DESCRIPTION:Section: IMSSP261\nInstructor: Doe\, Jane`)
}

func TestGenerateFolding(t *testing.T) {
	entry := mondayCourse()
	entry.CourseTitle = strings.Repeat("Long Course Title ", 10)

	out := testGenerator().Generate([]model.SelectionEntry{entry})

	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), 75, "no physical line may exceed the fold limit: %q", line)
	}

	// Unfolding restores the original content line.
	assert.Contains(t, unfold(out), "SUMMARY:"+entry.CourseTitle)
}

func TestFoldLine(t *testing.T) {
	short := strings.Repeat("a", 75)
	assert.Equal(t, short, foldLine(short))

	long := strings.Repeat("a", 80)
	folded := foldLine(long)
	assert.Equal(t, strings.Repeat("a", 75)+"\r\n "+strings.Repeat("a", 5), folded)
	assert.Equal(t, long, unfold(folded))

	// Multiple continuation lines, each starting with one space.
	veryLong := strings.Repeat("b", 200)
	folded = foldLine(veryLong)
	parts := strings.Split(folded, "\r\n")
	require.Greater(t, len(parts), 2)
	for _, part := range parts[1:] {
		assert.True(t, strings.HasPrefix(part, " "))
	}
	assert.Equal(t, veryLong, unfold(folded))
}

// The generated payload must be parseable by an independent iCalendar
// implementation, and its recurrence must expand to one event per week.
func TestGenerateRoundTrip(t *testing.T) {
	out := testGenerator().Generate([]model.SelectionEntry{mondayCourse()})

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)
	ev := events[0]

	uid := ev.GetProperty(ical.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.Equal(t, "IMSSP261-Monday-900AM-1015AM@vinuni-course-planner", uid.Value)

	rruleProp := ev.GetProperty(ical.ComponentPropertyRrule)
	require.NotNil(t, rruleProp)

	rule, err := rrule.StrToRRule(rruleProp.Value)
	require.NoError(t, err)
	rule.DTStart(time.Date(2026, time.February, 9, 9, 0, 0, 0, testZone))

	occurrences := rule.All()
	// Mondays from 2026-02-09 through 2026-06-01 inclusive.
	assert.Len(t, occurrences, 17)
	assert.Equal(t, time.Date(2026, time.February, 9, 9, 0, 0, 0, testZone).Unix(), occurrences[0].Unix())
	assert.Equal(t, time.Date(2026, time.June, 1, 9, 0, 0, 0, testZone).Unix(), occurrences[len(occurrences)-1].Unix())
	for _, occ := range occurrences {
		assert.Equal(t, time.Monday, occ.Weekday())
	}
}

func TestEventUID(t *testing.T) {
	assert.Equal(t, "IMSSP261-Monday-900AM-1015AM@vinuni-course-planner",
		eventUID("IMSSP261", "Monday", "9:00AM - 10:15AM"))
	assert.Equal(t, "S1-Friday-@vinuni-course-planner", eventUID("S1", "Friday", "?!"))
}
