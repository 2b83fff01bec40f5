package availability

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var clockTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)

// ErrInvalidRange reports an interval whose end is not after its start.
var ErrInvalidRange = errors.New("interval end must be after start")

// ParseError reports a malformed clock-time string or source payload field.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time format: %q", e.Input)
}

// ParseClockTime parses a "H:MM AM|PM" string into an instant on ref's
// calendar date, in ref's location.
func ParseClockTime(s string, ref time.Time) (time.Time, error) {
	m := clockTimePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, &ParseError{Input: s}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, &ParseError{Input: s}
	}
	if m[3] == "PM" && hour != 12 {
		hour += 12
	}
	if m[3] == "AM" && hour == 12 {
		hour = 0
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// FormatClockTime renders t on the facility's 12-hour clock in loc.
func FormatClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

// DurationMinutes returns end minus start in whole minutes.
func DurationMinutes(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("%w: start %s, end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return int(end.Sub(start) / time.Minute), nil
}

// DateLabel renders a calendar date the way snapshots are keyed in the cache
// and headed in emails, e.g. "Monday, Jan 2".
func DateLabel(t time.Time) string {
	return t.Format("Monday, Jan 2")
}
