package collision_test

import (
	"testing"

	"labplanner/internal/domains/booking/collision"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func mustDate(value string) civil.Date {
	date, err := civil.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return date
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{
			name:   "identical ranges",
			aStart: "2024-01-01", aEnd: "2024-01-05",
			bStart: "2024-01-01", bEnd: "2024-01-05",
			expected: true,
		},
		{
			name:   "partial overlap",
			aStart: "2024-01-01", aEnd: "2024-01-05",
			bStart: "2024-01-03", bEnd: "2024-01-07",
			expected: true,
		},
		{
			name:   "touching on the last day",
			aStart: "2024-01-01", aEnd: "2024-01-05",
			bStart: "2024-01-05", bEnd: "2024-01-09",
			expected: true,
		},
		{
			name:   "containment",
			aStart: "2024-01-01", aEnd: "2024-01-31",
			bStart: "2024-01-10", bEnd: "2024-01-10",
			expected: true,
		},
		{
			name:   "adjacent days do not overlap",
			aStart: "2024-01-01", aEnd: "2024-01-05",
			bStart: "2024-01-06", bEnd: "2024-01-09",
			expected: false,
		},
		{
			name:   "disjoint ranges",
			aStart: "2024-01-01", aEnd: "2024-01-05",
			bStart: "2024-02-01", bEnd: "2024-02-05",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aStart, aEnd := mustDate(tt.aStart), mustDate(tt.aEnd)
			bStart, bEnd := mustDate(tt.bStart), mustDate(tt.bEnd)

			assert.Equal(t, tt.expected, collision.Overlaps(aStart, aEnd, bStart, bEnd))
			assert.Equal(t, tt.expected, collision.Overlaps(bStart, bEnd, aStart, aEnd), "overlap must be symmetric")
		})
	}
}

func TestDaysInRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "single day",
			start:    "2024-01-04",
			end:      "2024-01-04",
			expected: []string{"2024-01-04"},
		},
		{
			name:     "across a month boundary",
			start:    "2024-01-30",
			end:      "2024-02-02",
			expected: []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"},
		},
		{
			name:     "leap day",
			start:    "2024-02-28",
			end:      "2024-03-01",
			expected: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
		{
			name:     "end before start",
			start:    "2024-01-05",
			end:      "2024-01-01",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := collision.DaysInRange(mustDate(tt.start), mustDate(tt.end))

			got := make([]string, 0, len(days))
			for _, day := range days {
				got = append(got, day.String())
			}

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := collision.ParseRange("2024-01-01", "2024-01-01")
	assert.NoError(t, err)
	assert.Equal(t, start, end)

	_, _, err = collision.ParseRange("2024-01-05", "2024-01-01")
	assert.Error(t, err)

	_, _, err = collision.ParseRange("01/05/2024", "2024-01-06")
	assert.Error(t, err)

	_, _, err = collision.ParseRange("2024-01-05", "")
	assert.Error(t, err)
}
