package calendar

// ConflictColor overrides the palette for conflicting sections.
const ConflictColor = "#ef4444"

// palette holds the per-course block colors. Assignment must stay stable
// across sessions and releases, so entries are only ever appended.
var palette = []string{
	"#3b82f6", // blue
	"#a855f7", // purple
	"#ec4899", // pink
	"#6366f1", // indigo
	"#06b6d4", // cyan
	"#14b8a6", // teal
	"#f59e0b", // amber
	"#f97316", // orange
	"#84cc16", // lime
	"#10b981", // emerald
	"#f43f5e", // rose
	"#8b5cf6", // violet
	"#d946ef", // fuchsia
	"#0ea5e9", // sky
	"#22c55e", // green
	"#eab308", // yellow
	"#2563eb", // dark blue
	"#9333ea", // dark purple
	"#0d9488", // dark teal
	"#ea580c", // dark orange
	"#059669", // dark emerald
	"#4f46e5", // dark indigo
	"#db2777", // dark pink
	"#0891b2", // dark cyan
}

// CourseColor derives a deterministic palette color from a course code so
// the same course always renders the same color. The hash works on 32-bit
// signed arithmetic to stay compatible with colors assigned by earlier
// versions of the planner.
func CourseColor(courseCode string) string {
	var hash int32
	for _, c := range courseCode {
		hash = int32(c) + (hash<<5 - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return palette[int(hash)%len(palette)]
}
