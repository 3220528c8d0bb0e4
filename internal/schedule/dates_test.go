package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)

	dr, ok := ParseDateRange("2/9/2026 to 6/5/2026", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.February, 9, 0, 0, 0, 0, loc), dr.Start)
	assert.Equal(t, time.Date(2026, time.June, 5, 0, 0, 0, 0, loc), dr.End)
}

func TestParseDateRangeTolerance(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"extra whitespace", "2/9/2026   to   6/5/2026", true},
		{"uppercase TO", "2/9/2026 TO 6/5/2026", true},
		{"embedded in longer text", "Semester: 2/9/2026 to 6/5/2026 (17 weeks)", true},
		{"two digit day and month", "12/21/2026 to 12/31/2026", true},
		{"missing second date", "2/9/2026", false},
		{"wrong separator", "2/9/2026 until 6/5/2026", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDateRange(tt.input, loc)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

// Day/month values that do not exist in the calendar are rejected rather
// than rolled over into the following month.
func TestParseDateRangeRejectsImpossibleDates(t *testing.T) {
	loc := time.UTC

	_, ok := ParseDateRange("2/31/2026 to 6/5/2026", loc)
	assert.False(t, ok)

	_, ok = ParseDateRange("2/9/2026 to 6/31/2026", loc)
	assert.False(t, ok)

	_, ok = ParseDateRange("13/1/2026 to 6/5/2026", loc)
	assert.False(t, ok)

	// 2028 is a leap year, 2026 is not.
	_, ok = ParseDateRange("2/29/2028 to 6/5/2028", loc)
	assert.True(t, ok)
	_, ok = ParseDateRange("2/29/2026 to 6/5/2026", loc)
	assert.False(t, ok)
}
