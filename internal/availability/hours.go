package availability

import (
	"fmt"
	"time"

	"courtwatch/internal/entities"
)

// Schedule holds the facility's opening rules in its IANA timezone. Weekend
// days may open later and close earlier than weekdays.
type Schedule struct {
	loc          *time.Location
	weekdayOpen  int // minutes after midnight
	weekdayClose int
	weekendOpen  int
	weekendClose int
}

// NewSchedule builds a schedule from "H:MM AM|PM" clock strings.
func NewSchedule(loc *time.Location, weekdayOpen, weekdayClose, weekendOpen, weekendClose string) (*Schedule, error) {
	s := &Schedule{loc: loc}
	for _, entry := range []struct {
		value string
		dst   *int
	}{
		{weekdayOpen, &s.weekdayOpen},
		{weekdayClose, &s.weekdayClose},
		{weekendOpen, &s.weekendOpen},
		{weekendClose, &s.weekendClose},
	} {
		mins, err := minutesOfDay(entry.value, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing schedule time %q: %w", entry.value, err)
		}
		*entry.dst = mins
	}
	if s.weekdayClose <= s.weekdayOpen || s.weekendClose <= s.weekendOpen {
		return nil, fmt.Errorf("schedule close must be after open: %w", ErrInvalidRange)
	}
	return s, nil
}

// Location returns the facility timezone.
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// HoursFor returns the operating hours for the date daysLater days after now.
// NowClamp is set only for the current day (daysLater == 0).
func (s *Schedule) HoursFor(now time.Time, daysLater int) entities.OperatingHours {
	local := now.In(s.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, daysLater)

	openMin, closeMin := s.weekdayOpen, s.weekdayClose
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		openMin, closeMin = s.weekendOpen, s.weekendClose
	}

	hours := entities.OperatingHours{
		Date:  day,
		Open:  day.Add(time.Duration(openMin) * time.Minute),
		Close: day.Add(time.Duration(closeMin) * time.Minute),
	}
	if daysLater == 0 {
		hours.NowClamp = RoundUpToHalfHour(local)
	}
	return hours
}

// RoundUpToHalfHour returns the next half-hour boundary at or after t, on the
// facility's wall clock rather than the absolute timeline, so odd UTC offsets
// and DST shifts do not skew the boundary.
func RoundUpToHalfHour(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	mins := t.Hour()*60 + t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 || mins%30 != 0 {
		mins = (mins/30 + 1) * 30
	}
	return day.Add(time.Duration(mins) * time.Minute)
}

func minutesOfDay(clock string, loc *time.Location) (int, error) {
	ref := time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)
	t, err := ParseClockTime(clock, ref)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
