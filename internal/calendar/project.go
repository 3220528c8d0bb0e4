// Package calendar projects the working set onto a weekly grid. The grid
// covers Monday through Friday within a fixed display window; each block
// carries a proportional vertical offset and height so grid and agenda
// renderers share one placement computation.
package calendar

import (
	"sort"

	"github.com/napthedev/vinuni-course-planner/internal/model"
	"github.com/napthedev/vinuni-course-planner/internal/schedule"
)

// Window is the visible hour range of the grid.
type Window struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// DefaultWindow covers 7 AM to 10 PM.
func DefaultWindow() Window {
	return Window{StartHour: 7, EndHour: 22}
}

// TotalMinutes is the window height in minutes.
func (w Window) TotalMinutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Block is one placed slot of a selected section.
type Block struct {
	Course    string  `json:"course"`
	Title     string  `json:"title"`
	Section   string  `json:"section"`
	Day       string  `json:"day"`
	StartText string  `json:"start"`
	EndText   string  `json:"end"`
	Offset    float64 `json:"offset"`
	Height    float64 `json:"height"`
	Color     string  `json:"color"`
	Conflict  bool    `json:"conflict"`

	startMinutes int
}

// Day is one weekday column of the grid, blocks sorted by start time.
type Day struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Project places every parseable slot of every entry onto the weekly grid.
// Saturday and Sunday slots are dropped: the grid renders weekdays only,
// even when a selected section meets on a weekend. Unparseable slots and
// TBA entries are skipped.
func Project(entries []model.SelectionEntry, w Window) []Day {
	days := make([]Day, len(model.Weekdays))
	index := make(map[string]int, len(model.Weekdays))
	for i, name := range model.Weekdays {
		days[i] = Day{Name: name, Blocks: []Block{}}
		index[name] = i
	}

	total := float64(w.TotalMinutes())

	for _, entry := range entries {
		if !entry.HasSchedule() {
			continue
		}
		for _, slot := range schedule.ParseSlots(entry.CourseRecord) {
			di, ok := index[slot.Day]
			if !ok {
				continue
			}

			startOffset := slot.StartMinutes() - w.StartHour*60
			duration := slot.EndMinutes() - slot.StartMinutes()

			color := CourseColor(entry.Course)
			if entry.HasConflict {
				color = ConflictColor
			}

			days[di].Blocks = append(days[di].Blocks, Block{
				Course:       entry.Course,
				Title:        entry.CourseTitle,
				Section:      entry.Section,
				Day:          slot.Day,
				StartText:    schedule.FormatTime(slot.StartHour, slot.StartMinute),
				EndText:      schedule.FormatTime(slot.EndHour, slot.EndMinute),
				Offset:       float64(startOffset) / total,
				Height:       float64(duration) / total,
				Color:        color,
				Conflict:     entry.HasConflict,
				startMinutes: slot.StartMinutes(),
			})
		}
	}

	for i := range days {
		blocks := days[i].Blocks
		sort.SliceStable(blocks, func(a, b int) bool {
			return blocks[a].startMinutes < blocks[b].startMinutes
		})
	}

	return days
}

// TimeLabels generates the hour labels of the window, e.g. "7:00 AM" up to
// "9:00 PM" for the default window.
func TimeLabels(w Window) []string {
	labels := make([]string, 0, w.EndHour-w.StartHour)
	for hour := w.StartHour; hour < w.EndHour; hour++ {
		labels = append(labels, schedule.FormatTime(hour, 0))
	}
	return labels
}
