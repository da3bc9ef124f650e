package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format accepted on the wire
const DateLayout = "2006-01-02"

// Date identifies a calendar day as supplied by the caller, e.g. "2025-03-17".
// Dates are opaque comparable keys; no timezone conversion happens here.
type Date string

// ParseDate validates a calendar-day string and returns it as a Date
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date(s), nil
}

// Today returns the current calendar day in the local timezone
func Today() Date {
	return Date(time.Now().Format(DateLayout))
}

// Weekday returns the weekday of the date with Monday=0 through Sunday=6,
// matching the encoding of Template.ActiveDays. The date must have been
// produced by ParseDate.
func (d Date) Weekday() int {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return -1
	}
	// time.Weekday numbers Sunday=0; shift so Monday=0
	return (int(t.Weekday()) + 6) % 7
}

func (d Date) String() string {
	return string(d)
}
