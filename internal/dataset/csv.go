package dataset

import (
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

// csvRow is the flattened CSV shape of one record. The slot list collapses
// into a single "Mon 9:00AM to 10:15AM; Wed ..." column; TBA records get
// the literal "TBA".
type csvRow struct {
	Course         string `csv:"Course"`
	CourseTitle    string `csv:"Course Title"`
	Section        string `csv:"Section"`
	Dates          string `csv:"Dates"`
	Credits        string `csv:"Credits"`
	Instructor     string `csv:"Instructor"`
	DeliveryMethod string `csv:"Delivery Method"`
	Schedule       string `csv:"Schedule"`
}

// ExportCSV renders records as CSV text, one row per section.
func ExportCSV(records []model.CourseRecord) (string, error) {
	rows := make([]*csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &csvRow{
			Course:         rec.Course,
			CourseTitle:    rec.CourseTitle,
			Section:        rec.Section,
			Dates:          rec.Dates,
			Credits:        rec.Credits,
			Instructor:     rec.Instructor,
			DeliveryMethod: rec.DeliveryMethod,
			Schedule:       formatScheduleColumn(rec),
		})
	}
	return gocsv.MarshalString(&rows)
}

func formatScheduleColumn(rec model.CourseRecord) string {
	if !rec.HasSchedule() {
		return "TBA"
	}
	parts := make([]string, 0, len(rec.Schedule))
	for _, ws := range rec.Schedule {
		day := ws.Day
		if len(day) > 3 {
			day = day[:3]
		}
		parts = append(parts, day+" "+ws.Time)
	}
	return strings.Join(parts, "; ")
}
