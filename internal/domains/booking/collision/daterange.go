package collision

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(value string) (civil.Date, error) {
	date, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid calendar date %q: %w", value, err)
	}

	return date, nil
}

// ParseRange parses an inclusive date range and rejects ranges that end before they start.
func ParseRange(start, end string) (civil.Date, civil.Date, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}

	endDate, err := ParseDate(end)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}

	if endDate.Before(startDate) {
		return civil.Date{}, civil.Date{}, fmt.Errorf("range ends (%s) before it starts (%s)", endDate, startDate)
	}

	return startDate, endDate, nil
}

// Overlaps reports whether two inclusive date ranges share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd civil.Date) bool {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}

	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}

	return !start.After(end)
}

// Contains reports whether day falls inside the inclusive range.
func Contains(start, end, day civil.Date) bool {
	return !day.Before(start) && !day.After(end)
}

// DaysInRange lists every day from start to end inclusive, ascending.
func DaysInRange(start, end civil.Date) []civil.Date {
	if end.Before(start) {
		return nil
	}

	days := make([]civil.Date, 0, end.DaysSince(start)+1)
	for day := start; !day.After(end); day = day.AddDays(1) {
		days = append(days, day)
	}

	return days
}
