// Package ics renders the working set as an iCalendar file. Each scheduled
// slot becomes one weekly-recurring VEVENT anchored at the first occurrence
// of its weekday within the semester date range, bounded by an UNTIL at the
// semester end. Output is CRLF-joined and folded at 75 octets so standard
// calendar applications import it unchanged.
package ics

import (
	"regexp"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "github.com/napthedev/vinuni-course-planner/internal/log"
	"github.com/napthedev/vinuni-course-planner/internal/model"
	"github.com/napthedev/vinuni-course-planner/internal/schedule"
)

const (
	// TimezoneID is the fixed calendar timezone: UTC+7, no daylight saving.
	TimezoneID = "Asia/Ho_Chi_Minh"

	prodID       = "-//VinUni Course Planner//EN"
	calendarName = "VinUni Course Schedule"
	uidDomain    = "vinuni-course-planner"

	maxLineOctets = 75
)

// rruleDay maps dataset day names to iCalendar weekday codes.
var rruleDay = map[string]rrule.Weekday{
	"Monday":    rrule.MO,
	"Tuesday":   rrule.TU,
	"Wednesday": rrule.WE,
	"Thursday":  rrule.TH,
	"Friday":    rrule.FR,
	"Saturday":  rrule.SA,
	"Sunday":    rrule.SU,
}

// Generator renders calendar files. Now is injectable so DTSTAMP values are
// reproducible in tests.
type Generator struct {
	Location *time.Location
	Now      func() time.Time
}

// NewGenerator returns a Generator using the given display location.
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{Location: loc, Now: time.Now}
}

// Generate renders the given entries as a complete VCALENDAR. The caller is
// responsible for gating on planner.CanExport; Generate itself assumes a
// conflict-free, non-empty set. Entries whose date range or slots cannot be
// parsed contribute no events but never abort the export.
func (g *Generator) Generate(entries []model.SelectionEntry) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + calendarName,
		"X-WR-TIMEZONE:" + TimezoneID,
	}
	lines = append(lines, timezoneBlock()...)

	for _, entry := range entries {
		dates, ok := schedule.ParseDateRange(entry.Dates, g.Location)
		if !ok {
			appLog.Debug("ics: unparseable date range, skipping record",
				"section", entry.Section, "dates", entry.Dates)
			continue
		}

		for _, slot := range entry.Schedule {
			ev, ok := g.eventLines(entry, dates, slot)
			if !ok {
				continue
			}
			lines = append(lines, ev...)
		}
	}

	lines = append(lines, "END:VCALENDAR")

	folded := make([]string, len(lines))
	for i, line := range lines {
		folded[i] = foldLine(line)
	}
	return strings.Join(folded, "\r\n")
}

// eventLines renders one weekly slot as a VEVENT. It returns false when the
// slot's time text, day name, or recurrence cannot be resolved.
func (g *Generator) eventLines(entry model.SelectionEntry, dates schedule.DateRange, slot model.WeeklySlot) ([]string, bool) {
	tr, ok := schedule.ParseTimeRange(slot.Time)
	if !ok {
		return nil, false
	}
	weekday, ok := rruleDay[slot.Day]
	if !ok {
		return nil, false
	}

	until := untilBound(dates.End)

	// Recurrence anchor: the first real occurrence of this weekday on or
	// after the semester start, carrying the slot's start time.
	seed := time.Date(dates.Start.Year(), dates.Start.Month(), dates.Start.Day(),
		tr.StartHour, tr.StartMinute, 0, 0, g.Location)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   seed,
		Byweekday: []rrule.Weekday{weekday},
		Until:     until,
	})
	if err != nil {
		appLog.Error("ics: recurrence rule rejected", err,
			"section", entry.Section, "day", slot.Day)
		return nil, false
	}

	first := rule.After(seed, true)
	if first.IsZero() {
		// The semester ends before this weekday ever occurs.
		appLog.Debug("ics: no occurrence within date range, skipping slot",
			"section", entry.Section, "day", slot.Day)
		return nil, false
	}

	eventStart := time.Date(first.Year(), first.Month(), first.Day(),
		tr.StartHour, tr.StartMinute, 0, 0, g.Location)
	eventEnd := time.Date(first.Year(), first.Month(), first.Day(),
		tr.EndHour, tr.EndMinute, 0, 0, g.Location)

	description := "Section: " + entry.Section + "\nInstructor: " + entry.Instructor

	return []string{
		"BEGIN:VEVENT",
		"UID:" + eventUID(entry.Section, slot.Day, slot.Time),
		"DTSTAMP:" + formatLocal(g.Now().In(g.Location)),
		"DTSTART;TZID=" + TimezoneID + ":" + formatLocal(eventStart),
		"DTEND;TZID=" + TimezoneID + ":" + formatLocal(eventEnd),
		"RRULE:FREQ=WEEKLY;BYDAY=" + weekday.String() + ";UNTIL=" + formatUntil(dates.End),
		"SUMMARY:" + escapeText(entry.CourseTitle),
		"DESCRIPTION:" + escapeText(description),
		"LOCATION:" + escapeText(entry.DeliveryMethod),
		"BEGIN:VALARM",
		"TRIGGER:-PT15M",
		"ACTION:DISPLAY",
		"DESCRIPTION:Class starting in 15 minutes",
		"END:VALARM",
		"END:VEVENT",
	}, true
}

// timezoneBlock emits the fixed-offset VTIMEZONE definition (ICT, UTC+7,
// no transitions).
func timezoneBlock() []string {
	return []string{
		"BEGIN:VTIMEZONE",
		"TZID:" + TimezoneID,
		"BEGIN:STANDARD",
		"DTSTART:19700101T000000",
		"TZOFFSETFROM:+0700",
		"TZOFFSETTO:+0700",
		"TZNAME:ICT",
		"END:STANDARD",
		"END:VTIMEZONE",
	}
}

var uidStripRe = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// eventUID builds a stable per-slot identifier from the section code, day
// and raw time text, reduced to alphanumerics and hyphens.
func eventUID(section, day, timeText string) string {
	sanitized := uidStripRe.ReplaceAllString(section+"-"+day+"-"+timeText, "")
	return sanitized + "@" + uidDomain
}

// untilBound is the recurrence cutoff: semester end date at 23:59:59 UTC.
func untilBound(end time.Time) time.Time {
	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

// formatLocal renders a floating local date-time, e.g. "20260209T090000".
func formatLocal(t time.Time) string {
	return t.Format("20060102T150405")
}

// formatUntil renders the UNTIL value, e.g. "20260605T235959Z".
func formatUntil(end time.Time) string {
	return end.Format("20060102") + "T235959Z"
}

// escapeText escapes iCalendar text values: backslash, semicolon, comma and
// newline, in that order.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ";", `\;`)
	text = strings.ReplaceAll(text, ",", `\,`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	return text
}

// foldLine soft-wraps a content line longer than 75 octets by inserting a
// CRLF followed by a single space, repeatedly, until the remainder fits.
// Unfolding (removing every CRLF+space) reproduces the original line.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var parts []string
	remaining := line
	for len(remaining) > maxLineOctets {
		parts = append(parts, remaining[:maxLineOctets])
		remaining = " " + remaining[maxLineOctets:]
	}
	parts = append(parts, remaining)
	return strings.Join(parts, "\r\n")
}
