package model

// WeeklySlot is one weekly meeting of a section: a day name plus the
// free-text time range exactly as it appears in the dataset
// (e.g. "9:00AM to 10:15AM").
type WeeklySlot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// CourseRecord is the immutable source-of-truth entity for one section.
// JSON tags match the dataset produced by the scrape pipeline verbatim,
// including the spaced field names.
type CourseRecord struct {
	Course         string       `json:"Course"`
	CourseTitle    string       `json:"Course Title"`
	Section        string       `json:"Section"`
	Dates          string       `json:"Dates"`
	Credits        string       `json:"Credits"`
	Instructor     string       `json:"Instructor"`
	DeliveryMethod string       `json:"Delivery Method"`
	Schedule       []WeeklySlot `json:"Schedule"`
}

// HasSchedule reports whether the record has at least one weekly slot.
// Records without slots are TBA and are exempt from conflict checking and
// time filtering.
func (r CourseRecord) HasSchedule() bool {
	return len(r.Schedule) > 0
}

// Equal compares every persisted field, including the ordered slot list.
// It is used to validate restored records against the master dataset.
func (r CourseRecord) Equal(o CourseRecord) bool {
	if r.Course != o.Course ||
		r.CourseTitle != o.CourseTitle ||
		r.Section != o.Section ||
		r.Dates != o.Dates ||
		r.Credits != o.Credits ||
		r.Instructor != o.Instructor ||
		r.DeliveryMethod != o.DeliveryMethod {
		return false
	}
	if len(r.Schedule) != len(o.Schedule) {
		return false
	}
	for i := range r.Schedule {
		if r.Schedule[i] != o.Schedule[i] {
			return false
		}
	}
	return true
}

// ParsedTimeSlot is the ephemeral, normalized form of a WeeklySlot:
// 24-hour start/end values derived from the slot's time text.
type ParsedTimeSlot struct {
	Day         string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// StartMinutes returns the slot start as minutes since midnight.
func (s ParsedTimeSlot) StartMinutes() int {
	return s.StartHour*60 + s.StartMinute
}

// EndMinutes returns the slot end as minutes since midnight.
func (s ParsedTimeSlot) EndMinutes() int {
	return s.EndHour*60 + s.EndMinute
}

// SelectionEntry is a CourseRecord that is part of the working set,
// annotated with conflict information. Annotations are recomputed in full
// on every mutation of the working set and never persisted.
type SelectionEntry struct {
	CourseRecord
	HasConflict   bool     `json:"hasConflict"`
	ConflictsWith []string `json:"conflictsWith"`
}
