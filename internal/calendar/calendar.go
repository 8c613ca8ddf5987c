// Package calendar holds the date and time-of-day helpers shared by billing
// and scheduling. All calendar dates are represented as UTC midnight so that a
// day never shifts because of the server's local offset.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
)

// TimeToMinutes parses a 24-hour "HH:MM" string into minutes since midnight.
func TimeToMinutes(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	hours, ok := parseUnsigned(parts[0], 2)
	if !ok || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	minutes, ok := parseUnsigned(parts[1], 2)
	if !ok || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	return hours*60 + minutes, nil
}

// MinutesToTime formats minutes since midnight as zero-padded "HH:MM".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a strict YYYY-MM-DD string. The components are taken
// literally and the result is UTC midnight of that day.
func ParseDate(value string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	year, okY := parseUnsigned(parts[0], 4)
	month, okM := parseUnsigned(parts[1], 2)
	day, okD := parseUnsigned(parts[2], 2)
	if !okY || !okM || !okD {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	if month < 1 || month > 12 || day < 1 || day > DaysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: %q out of range", ErrInvalidDate, value)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDay drops the time of day. The calendar date is read in t's own
// location and the result is UTC midnight of that date.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return TruncateDay(t).Add(24*time.Hour - time.Millisecond)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped moves t by the given number of calendar months and places
// it on anchorDay. When the target month is shorter than anchorDay the last
// day of that month is used instead of overflowing into the next one.
func AddMonthsClamped(t time.Time, months, anchorDay int) time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := anchorDay
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func parseUnsigned(s string, maxLen int) (int, bool) {
	if s == "" || len(s) > maxLen {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
