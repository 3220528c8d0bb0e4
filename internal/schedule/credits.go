package schedule

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/napthedev/vinuni-course-planner/internal/model"
)

// creditPrefixRe extracts the leading decimal number of a credits string,
// matching the lenient prefix parse the dataset has always been read with.
var creditPrefixRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// CreditValue parses a credits string such as "3.00". Strings without a
// leading numeric prefix count as 0.
func CreditValue(s string) float64 {
	m := creditPrefixRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// TotalCredits sums the credit values of the given records.
func TotalCredits(records []model.CourseRecord) float64 {
	var total float64
	for _, rec := range records {
		total += CreditValue(rec.Credits)
	}
	return total
}
