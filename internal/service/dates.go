package service

import (
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, invalidArgument("date %q must be in YYYY-MM-DD format", s)
	}
	d, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, invalidArgument("date %q is not a calendar date", s)
	}
	return d, nil
}

// DayWindow returns the half-open window [midnight, next midnight) of the
// day starting at start. Across a DST change the window is 23 or 25 hours.
func DayWindow(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, 1)
}
