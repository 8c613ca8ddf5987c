package service

import "time"

// Clock returns the current instant in the trainer's timezone. Services take
// one so "today" can be pinned in tests.
type Clock func() time.Time

// NewClock returns a Clock reading the wall clock in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}
