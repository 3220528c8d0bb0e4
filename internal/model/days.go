package model

import "time"

// DaysOfWeek lists the day names used by the dataset, Monday first.
var DaysOfWeek = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Weekdays is the subset rendered on the weekly grid. Saturday and Sunday
// never appear on the calendar even when a selected section meets then.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
}

// dayToWeekday maps day names to time.Weekday (Sunday = 0).
var dayToWeekday = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// KnownDay reports whether day is one of the seven dataset day names.
func KnownDay(day string) bool {
	_, ok := dayToWeekday[day]
	return ok
}
