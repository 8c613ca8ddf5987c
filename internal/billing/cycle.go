// Package billing maps payment dates onto monthly billing cycles anchored on a
// client's start date and aggregates payments into a per-cycle status.
//
// Everything here is a pure function of its arguments: no I/O, no logging and
// no shared state, so callers may invoke it concurrently.
package billing

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/trainer-desk/internal/calendar"
)

// Bounds for a resolved cycle year. Anything outside indicates corrupted input.
const (
	MinCycleYear = 1900
	MaxCycleYear = 2100
)

var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

// Cycle is one monthly billing period. Start and End are calendar dates (UTC
// midnight) and both are inclusive.
type Cycle struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Month int       `json:"month"` // 1-12, month of Start
	Year  int       `json:"year"`
}

// ResolveCycle returns the cycle containing ref for a client who started on
// startDate.
//
// A reference day earlier than the anchor day belongs to the cycle that began
// in the previous month. When the anchor day does not exist in a month (start
// on the 31st, month of 30 days) the cycle starts on that month's last day.
func ResolveCycle(startDate, ref time.Time) (Cycle, error) {
	start := calendar.TruncateDay(startDate)
	day := calendar.TruncateDay(ref)

	monthsDiff := (day.Year()-start.Year())*12 + int(day.Month()) - int(start.Month())

	anchor := start.Day()
	effectiveAnchor := anchor
	if last := calendar.DaysIn(day.Year(), day.Month()); effectiveAnchor > last {
		effectiveAnchor = last
	}
	if day.Day() < effectiveAnchor {
		monthsDiff--
	}

	cycleStart := calendar.AddMonthsClamped(start, monthsDiff, anchor)
	cycleEnd := calendar.AddMonthsClamped(start, monthsDiff+1, anchor).AddDate(0, 0, -1)

	c := Cycle{
		Start: cycleStart,
		End:   cycleEnd,
		Month: int(cycleStart.Month()),
		Year:  cycleStart.Year(),
	}
	if c.Month < 1 || c.Month > 12 || c.Year < MinCycleYear || c.Year > MaxCycleYear {
		return Cycle{}, fmt.Errorf("%w: month %d year %d", ErrInvalidBillingCycle, c.Month, c.Year)
	}
	return c, nil
}

// Contains reports whether the calendar day of t lies within the cycle.
func (c Cycle) Contains(t time.Time) bool {
	day := calendar.TruncateDay(t)
	return !day.Before(c.Start) && !day.After(c.End)
}

// ExpiresAt is the last instant of the cycle's final day in loc.
func (c Cycle) ExpiresAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := c.End.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// Next returns the cycle that immediately follows c for the same start date.
func (c Cycle) Next(startDate time.Time) (Cycle, error) {
	return ResolveCycle(startDate, c.End.AddDate(0, 0, 1))
}

// Attribution returns the month and year a payment made on paidOn is booked
// against.
func Attribution(startDate, paidOn time.Time) (month, year int, err error) {
	c, err := ResolveCycle(startDate, paidOn)
	if err != nil {
		return 0, 0, err
	}
	return c.Month, c.Year, nil
}
