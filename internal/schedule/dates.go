package schedule

import (
	"regexp"
	"strconv"
	"time"
)

var dateRangeRe = regexp.MustCompile(`(?i)(\d{1,2})/(\d{1,2})/(\d{4})\s*to\s*(\d{1,2})/(\d{1,2})/(\d{4})`)

// DateRange is a parsed semester date range. Start and End are midnight in
// the location given to ParseDateRange.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses a semester date string such as
// "2/9/2026 to 6/5/2026" (M/D/YYYY, whitespace-tolerant, case-insensitive
// "to"). The second return value is false when the text does not match or
// when either side names a day that does not exist in its month
// (e.g. 2/31/2026): such values are rejected outright instead of being
// rolled over into the next month.
func ParseDateRange(text string, loc *time.Location) (DateRange, bool) {
	if loc == nil {
		loc = time.Local
	}

	m := dateRangeRe.FindStringSubmatch(text)
	if m == nil {
		return DateRange{}, false
	}

	start, ok := makeDate(m[3], m[1], m[2], loc)
	if !ok {
		return DateRange{}, false
	}
	end, ok := makeDate(m[6], m[4], m[5], loc)
	if !ok {
		return DateRange{}, false
	}

	return DateRange{Start: start, End: end}, true
}

// makeDate builds a midnight date and verifies that the components survive
// normalization unchanged.
func makeDate(year, month, day string, loc *time.Location) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
