package availability

import (
	"testing"
	"time"

	"alcyxob/trainer-desk/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return engine
}

func freeOn(slots []FreeSlot, day int) []FreeSlot {
	var out []FreeSlot
	for _, s := range slots {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out
}

func TestFreeSlotsEmptyWeek(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots(nil)
	require.NoError(t, err)
	require.Len(t, slots, 7)
	for day, slot := range slots {
		assert.Equal(t, FreeSlot{DayOfWeek: day, StartTime: "06:00", EndTime: "22:00", DurationMinutes: 960}, slot)
	}
	assert.Equal(t, 960, engine.WindowMinutes())
}

func TestFreeSlotsTwoBookings(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots([]Booking{
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "19:00", ClientName: "Jane"},
		{DayOfWeek: 1, StartTime: "07:00", EndTime: "08:00", ClientName: "John"},
	})
	require.NoError(t, err)

	monday := freeOn(slots, 1)
	assert.Equal(t, []FreeSlot{
		{DayOfWeek: 1, StartTime: "06:00", EndTime: "07:00", DurationMinutes: 60},
		{DayOfWeek: 1, StartTime: "08:00", EndTime: "18:00", DurationMinutes: 600},
		{DayOfWeek: 1, StartTime: "19:00", EndTime: "22:00", DurationMinutes: 180},
	}, monday)
	assert.Len(t, slots, 6+3)
}

func TestFreeSlotsFullyDoubleBooked(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots([]Booking{
		{DayOfWeek: 3, StartTime: "06:00", EndTime: "22:00"},
		{DayOfWeek: 3, StartTime: "06:00", EndTime: "22:00"},
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00"},
	})
	require.NoError(t, err)
	assert.Empty(t, freeOn(slots, 3))
}

func TestFreeSlotsOverlapIsAbsorbed(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots([]Booking{
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00"},
		{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 2, StartTime: "11:30", EndTime: "13:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []FreeSlot{
		{DayOfWeek: 2, StartTime: "06:00", EndTime: "09:00", DurationMinutes: 180},
		{DayOfWeek: 2, StartTime: "13:00", EndTime: "22:00", DurationMinutes: 540},
	}, freeOn(slots, 2))
	for _, s := range slots {
		assert.Positive(t, s.DurationMinutes)
	}
}

func TestFreeSlotsDropsShortGaps(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots([]Booking{
		{DayOfWeek: 4, StartTime: "06:20", EndTime: "08:00"},
		{DayOfWeek: 4, StartTime: "08:29", EndTime: "09:00"},
		{DayOfWeek: 4, StartTime: "09:30", EndTime: "21:45"},
	})
	require.NoError(t, err)
	assert.Equal(t, []FreeSlot{
		{DayOfWeek: 4, StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30},
	}, freeOn(slots, 4))
}

func TestFreeSlotsBookingsOutsideWindow(t *testing.T) {
	engine := newTestEngine(t)
	slots, err := engine.FreeSlots([]Booking{
		{DayOfWeek: 5, StartTime: "05:00", EndTime: "07:00"},
		{DayOfWeek: 5, StartTime: "22:30", EndTime: "23:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, []FreeSlot{
		{DayOfWeek: 5, StartTime: "07:00", EndTime: "22:00", DurationMinutes: 900},
	}, freeOn(slots, 5))
}

func TestFreeSlotsRejectsInvalidBookings(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.FreeSlots([]Booking{{DayOfWeek: 7, StartTime: "07:00", EndTime: "08:00"}})
	require.ErrorIs(t, err, ErrInvalidBooking)

	_, err = engine.FreeSlots([]Booking{{DayOfWeek: 1, StartTime: "08:00", EndTime: "08:00"}})
	require.ErrorIs(t, err, ErrInvalidBooking)

	_, err = engine.FreeSlots([]Booking{{DayOfWeek: 1, StartTime: "7am", EndTime: "08:00"}})
	require.ErrorIs(t, err, calendar.ErrInvalidFormat)
}

func TestFreeSlotsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	bookings := []Booking{
		{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 6, StartTime: "12:00", EndTime: "13:00"},
		{DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"},
	}
	first, err := engine.FreeSlots(bookings)
	require.NoError(t, err)
	second, err := engine.FreeSlots(bookings)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWeekListsBookingsInOrder(t *testing.T) {
	engine := newTestEngine(t)
	week, err := engine.Week([]Booking{
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "19:00", ClientName: "Jane"},
		{DayOfWeek: 1, StartTime: "07:00", EndTime: "08:00", ClientName: "John"},
	})
	require.NoError(t, err)
	require.Len(t, week, 7)
	require.Len(t, week[1].Booked, 2)
	assert.Equal(t, "John", week[1].Booked[0].ClientName)
	assert.Equal(t, "Jane", week[1].Booked[1].ClientName)
	assert.Empty(t, week[0].Booked)
	assert.Len(t, week[0].Free, 1)
}

func TestNewEngineValidatesWindow(t *testing.T) {
	_, err := NewEngine(Config{WindowStart: "22:00", WindowEnd: "06:00", MinSlotMinutes: 30})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewEngine(Config{WindowStart: "6", WindowEnd: "22:00"})
	require.ErrorIs(t, err, ErrInvalidWindow)

	engine, err := NewEngine(Config{WindowStart: "08:00", WindowEnd: "12:00", MinSlotMinutes: 60})
	require.NoError(t, err)
	slots, err := engine.FreeSlots([]Booking{{DayOfWeek: 0, StartTime: "09:00", EndTime: "09:30"}})
	require.NoError(t, err)
	assert.Equal(t, []FreeSlot{
		{DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00", DurationMinutes: 60},
		{DayOfWeek: 0, StartTime: "09:30", EndTime: "12:00", DurationMinutes: 150},
	}, freeOn(slots, 0))
}

func TestNextSession(t *testing.T) {
	// 2024-03-13 is a Wednesday
	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	bookings := []Booking{
		{DayOfWeek: 1, StartTime: "07:00", EndTime: "08:00", ClientName: "monday"},
		{DayOfWeek: 3, StartTime: "09:00", EndTime: "10:00", ClientName: "wednesday-early"},
		{DayOfWeek: 3, StartTime: "18:00", EndTime: "19:00", ClientName: "wednesday-late"},
		{DayOfWeek: 5, StartTime: "07:00", EndTime: "08:00", ClientName: "friday"},
	}

	next := NextSession(bookings, now)
	require.NotNil(t, next)
	assert.Equal(t, "wednesday-late", next.ClientName)

	next = NextSession(bookings[:2], now)
	require.NotNil(t, next)
	assert.Equal(t, "monday", next.ClientName)

	next = NextSession(bookings[1:2], now)
	require.NotNil(t, next)
	assert.Equal(t, "wednesday-early", next.ClientName, "wraps to next week")

	assert.Nil(t, NextSession(nil, now))
}
