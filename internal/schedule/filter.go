package schedule

import (
	"strconv"
	"strings"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

// FilterState is the user-chosen predicate over day set and hour range. A
// nil hour bound means unbounded on that side. Preset records which named
// preset produced the current state; any manual change clears it.
type FilterState struct {
	Days          map[string]bool `json:"days"`
	StartHour     *int            `json:"startHour"`
	EndHour       *int            `json:"endHour"`
	Preset        string          `json:"preset,omitempty"`
	HideConflicts bool            `json:"hideConflicts"`
}

// Preset is a named filter shortcut.
type Preset struct {
	Label     string
	Days      map[string]bool
	StartHour *int
	EndHour   *int
}

func hourPtr(h int) *int { return &h }

// Presets are the built-in filter shortcuts offered by the UI.
var Presets = map[string]Preset{
	"morning": {
		Label:   "Morning Only",
		EndHour: hourPtr(12),
	},
	"afternoon": {
		Label:     "Afternoon Only",
		StartHour: hourPtr(12),
		EndHour:   hourPtr(17),
	},
	"evening": {
		Label:     "Evening Only",
		StartHour: hourPtr(17),
	},
	"noEarly": {
		Label:     "No 8AM Classes",
		StartHour: hourPtr(9),
	},
	"weekdays": {
		Label: "Weekdays Only",
		Days:  map[string]bool{"Saturday": false, "Sunday": false},
	},
}

// DefaultFilter returns the neutral filter: all days enabled, no hour
// bounds, no preset.
func DefaultFilter() FilterState {
	return FilterState{
		Days:      defaultDays(),
		StartHour: nil,
		EndHour:   nil,
	}
}

func defaultDays() map[string]bool {
	days := make(map[string]bool, len(model.DaysOfWeek))
	for _, d := range model.DaysOfWeek {
		days[d] = true
	}
	return days
}

// Normalize fills in any day missing from the map (older persisted states
// may predate schema changes) as enabled.
func (f *FilterState) Normalize() {
	if f.Days == nil {
		f.Days = defaultDays()
		return
	}
	for _, d := range model.DaysOfWeek {
		if _, ok := f.Days[d]; !ok {
			f.Days[d] = true
		}
	}
}

// Active reports whether any constraint deviates from the default.
func (f FilterState) Active() bool {
	for _, enabled := range f.Days {
		if !enabled {
			return true
		}
	}
	return f.StartHour != nil || f.EndHour != nil || f.HideConflicts
}

// ApplyPreset returns the filter state for the named preset. An unknown or
// empty key resets to the default.
func ApplyPreset(key string) FilterState {
	preset, ok := Presets[key]
	if !ok {
		return DefaultFilter()
	}

	f := FilterState{
		Days:      defaultDays(),
		StartHour: preset.StartHour,
		EndHour:   preset.EndHour,
		Preset:    key,
	}
	for day, enabled := range preset.Days {
		f.Days[day] = enabled
	}
	return f
}

// SetDay toggles one day and clears the preset key.
func (f FilterState) SetDay(day string, enabled bool) FilterState {
	days := make(map[string]bool, len(f.Days))
	for d, e := range f.Days {
		days[d] = e
	}
	days[day] = enabled
	f.Days = days
	f.Preset = ""
	return f
}

// Matches applies the day/hour criteria to one record:
//
//   - With no active constraint everything passes.
//   - TBA records are hidden while any constraint is active.
//   - Every parseable slot must fall on an enabled day, start at or after
//     StartHour, and end at or before EndHour; a record only shows when it
//     fits the filter entirely.
//
// The HideConflicts flag is not evaluated here; it needs the working set
// and is applied by the caller.
func (f FilterState) Matches(rec model.CourseRecord) bool {
	if !f.Active() {
		return true
	}
	if !rec.HasSchedule() {
		return false
	}

	for _, slot := range ParseSlots(rec) {
		if enabled, ok := f.Days[slot.Day]; ok && !enabled {
			return false
		}
		if f.StartHour != nil && slot.StartMinutes() < *f.StartHour*60 {
			return false
		}
		if f.EndHour != nil && slot.EndMinutes() > *f.EndHour*60 {
			return false
		}
	}
	return true
}

// Description summarizes the active constraints for display, e.g.
// "No Sat, Sun, After 9AM".
func (f FilterState) Description() string {
	var parts []string

	var active, inactive []string
	for _, day := range model.DaysOfWeek {
		if f.Days[day] {
			active = append(active, day[:3])
		} else {
			inactive = append(inactive, day[:3])
		}
	}
	if len(inactive) > 0 && len(inactive) <= 3 {
		parts = append(parts, "No "+strings.Join(inactive, ", "))
	} else if len(active) > 0 && len(active) <= 3 {
		parts = append(parts, strings.Join(active, ", "))
	}

	if f.StartHour != nil {
		parts = append(parts, "After "+shortHour(*f.StartHour))
	}
	if f.EndHour != nil {
		parts = append(parts, "Before "+shortHour(*f.EndHour))
	}

	return strings.Join(parts, ", ")
}

func shortHour(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return strconv.Itoa(display) + period
}
