package availability

import (
	"time"

	"alcyxob/trainer-desk/internal/calendar"
)

// NextSession picks the booking that comes up next after now: a session later
// today that has not started yet, otherwise the first one on a following
// weekday, wrapping into next week. Bookings with unreadable times are
// skipped. Returns nil when there is nothing scheduled.
func NextSession(bookings []Booking, now time.Time) *Booking {
	today := int(now.Weekday())
	nowMinutes := now.Hour()*60 + now.Minute()

	var best *Booking
	bestDistance := 0
	for i := range bookings {
		b := bookings[i]
		if b.DayOfWeek < 0 || b.DayOfWeek >= daysPerWeek {
			continue
		}
		start, err := calendar.TimeToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		days := (b.DayOfWeek - today + daysPerWeek) % daysPerWeek
		if days == 0 && start <= nowMinutes {
			days = daysPerWeek
		}
		distance := days*24*60 + start - nowMinutes
		if best == nil || distance < bestDistance {
			best = &bookings[i]
			bestDistance = distance
		}
	}
	if best == nil {
		return nil
	}
	next := *best
	return &next
}
