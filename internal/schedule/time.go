// Package schedule implements the course scheduling core: time and date
// range parsing, conflict detection, and time-based filtering. Every
// function here is pure; malformed input yields "no result" rather than an
// error, and callers skip what could not be parsed.
package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

// Separator forms seen in the dataset: "to", "-", and the en-dash, with
// arbitrary surrounding whitespace. All are normalized to " - " before
// matching.
var (
	sepTo     = regexp.MustCompile(`(?i)\s*to\s*`)
	sepEnDash = regexp.MustCompile(`\s*–\s*`)
	sepDash   = regexp.MustCompile(`\s*-\s*`)

	timeRangeRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)
)

// TimeRange is a parsed 24-hour time range within a single day.
type TimeRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// ParseTimeRange parses a free-text time range such as "9:00AM- 12:00PM",
// "9:00AM to 10:15AM" or "1:30PM – 3:00PM" into 24-hour values. The second
// return value is false when the text does not match; that is not an error
// condition, the slot is simply absent.
func ParseTimeRange(text string) (TimeRange, bool) {
	normalized := sepTo.ReplaceAllString(text, " - ")
	normalized = sepEnDash.ReplaceAllString(normalized, " - ")
	normalized = sepDash.ReplaceAllString(normalized, " - ")

	m := timeRangeRe.FindStringSubmatch(normalized)
	if m == nil {
		return TimeRange{}, false
	}

	tr := TimeRange{
		StartHour:   atoi2(m[1]),
		StartMinute: atoi2(m[2]),
		EndHour:     atoi2(m[4]),
		EndMinute:   atoi2(m[5]),
	}
	tr.StartHour = to24Hour(tr.StartHour, m[3])
	tr.EndHour = to24Hour(tr.EndHour, m[6])
	return tr, true
}

// to24Hour applies standard 12-hour clock rules: 12AM is 0, 12PM stays 12,
// any other PM hour gains 12.
func to24Hour(hour int, period string) int {
	pm := strings.EqualFold(period, "PM")
	switch {
	case pm && hour != 12:
		return hour + 12
	case !pm && hour == 12:
		return 0
	default:
		return hour
	}
}

// atoi2 converts a 1-2 digit string already vetted by the regexp.
func atoi2(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// ParseSlots derives the parseable time slots of a record. Slots whose time
// text does not match the expected pattern are dropped silently.
func ParseSlots(rec model.CourseRecord) []model.ParsedTimeSlot {
	slots := make([]model.ParsedTimeSlot, 0, len(rec.Schedule))
	for _, ws := range rec.Schedule {
		tr, ok := ParseTimeRange(ws.Time)
		if !ok {
			continue
		}
		slots = append(slots, model.ParsedTimeSlot{
			Day:         ws.Day,
			StartHour:   tr.StartHour,
			StartMinute: tr.StartMinute,
			EndHour:     tr.EndHour,
			EndMinute:   tr.EndMinute,
		})
	}
	return slots
}

// FormatTime renders a 24-hour time for display, e.g. (9, 0) -> "9:00 AM",
// (13, 30) -> "1:30 PM", (0, 15) -> "12:15 AM".
func FormatTime(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}
