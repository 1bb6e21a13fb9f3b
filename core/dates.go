package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the canonical layout for calendar dates on the wire and in logs
const DateLayout = "2006-01-02"

var clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Clock is a wall-clock time of day without a date or location
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h). A single digit hour is accepted.
func ParseClock(value string) (Clock, error) {
	matches := clockRegex.FindStringSubmatch(value)
	if matches == nil {
		return Clock{}, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	return Clock{Hour: hour, Minute: minute}, nil
}

// Add shifts the clock by d, wrapping around midnight
func (c Clock) Add(d time.Duration) Clock {
	const day = 24 * 60
	total := (c.Hour*60 + c.Minute + int(d/time.Minute)) % day
	if total < 0 {
		total += day
	}
	return Clock{Hour: total / 60, Minute: total % 60}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant at which this clock reads on the given calendar date in loc
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// NormalizeDate strips the time of day, keeping the calendar date as written in d's own location.
// Calendar dates are always carried as 00:00 UTC.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar date that instant t falls on in loc
func DateIn(t time.Time, loc *time.Location) time.Time {
	return NormalizeDate(t.In(loc))
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday
func ISOWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend reports whether the calendar date is a Saturday or Sunday
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// LoadLocation resolves an IANA timezone name
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone: %w", err)
	}
	return loc, nil
}
