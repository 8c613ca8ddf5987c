// Package availability computes a trainer's weekly free time from the
// recurring workout bookings of all clients.
package availability

import (
	"errors"
	"fmt"
	"sort"

	"alcyxob/trainer-desk/internal/calendar"
)

// Defaults for the daily working window and the shortest slot worth offering.
const (
	DefaultWindowStart    = "06:00"
	DefaultWindowEnd      = "22:00"
	DefaultMinSlotMinutes = 30

	daysPerWeek = 7
)

var (
	ErrInvalidBooking = errors.New("invalid booking")
	ErrInvalidWindow  = errors.New("invalid working window")
)

// Booking is one weekly recurring session as seen by the engine.
type Booking struct {
	DayOfWeek  int    `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
	ClientID   string `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	Location   string `json:"location,omitempty"`
}

// FreeSlot is an uncommitted span inside the working window.
type FreeSlot struct {
	DayOfWeek       int    `json:"dayOfWeek"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// DayAvailability is the busy and free picture for a single weekday.
type DayAvailability struct {
	DayOfWeek int        `json:"dayOfWeek"`
	Booked    []Booking  `json:"booked"`
	Free      []FreeSlot `json:"free"`
}

// Config holds the engine's window and slot floor.
type Config struct {
	WindowStart    string `mapstructure:"window_start"`
	WindowEnd      string `mapstructure:"window_end"`
	MinSlotMinutes int    `mapstructure:"min_slot_minutes"`
}

// DefaultConfig returns the 06:00-22:00 window with a 30 minute floor.
func DefaultConfig() Config {
	return Config{
		WindowStart:    DefaultWindowStart,
		WindowEnd:      DefaultWindowEnd,
		MinSlotMinutes: DefaultMinSlotMinutes,
	}
}

// Engine computes free slots. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	windowStart int
	windowEnd   int
	minSlot     int
}

// NewEngine validates cfg and builds an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	start, err := calendar.TimeToMinutes(cfg.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
	}
	end, err := calendar.TimeToMinutes(cfg.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, cfg.WindowStart, cfg.WindowEnd)
	}
	if cfg.MinSlotMinutes < 0 {
		return nil, fmt.Errorf("%w: negative minimum slot", ErrInvalidWindow)
	}
	return &Engine{windowStart: start, windowEnd: end, minSlot: cfg.MinSlotMinutes}, nil
}

// WindowMinutes is the length of the daily working window.
func (e *Engine) WindowMinutes() int {
	return e.windowEnd - e.windowStart
}

type interval struct {
	start, end int
	booking    Booking
}

// Week returns one DayAvailability per weekday, Sunday first.
func (e *Engine) Week(bookings []Booking) ([]DayAvailability, error) {
	byDay, err := groupByDay(bookings)
	if err != nil {
		return nil, err
	}

	week := make([]DayAvailability, daysPerWeek)
	for day := 0; day < daysPerWeek; day++ {
		intervals := byDay[day]
		booked := make([]Booking, len(intervals))
		for i, iv := range intervals {
			booked[i] = iv.booking
		}
		week[day] = DayAvailability{
			DayOfWeek: day,
			Booked:    booked,
			Free:      e.sweep(day, intervals),
		}
	}
	return week, nil
}

// FreeSlots returns the free slots of the whole week ordered by day then time.
func (e *Engine) FreeSlots(bookings []Booking) ([]FreeSlot, error) {
	week, err := e.Week(bookings)
	if err != nil {
		return nil, err
	}
	slots := []FreeSlot{}
	for _, day := range week {
		slots = append(slots, day.Free...)
	}
	return slots, nil
}

// sweep walks the day's bookings in start order. The cursor only moves
// forward, so overlapping bookings are absorbed without merging.
func (e *Engine) sweep(day int, intervals []interval) []FreeSlot {
	free := []FreeSlot{}
	cursor := e.windowStart
	for _, iv := range intervals {
		gapEnd := iv.start
		if gapEnd > e.windowEnd {
			gapEnd = e.windowEnd
		}
		if cursor < gapEnd {
			free = e.emit(free, day, cursor, gapEnd)
		}
		if iv.end > cursor {
			cursor = iv.end
		}
	}
	if cursor < e.windowEnd {
		free = e.emit(free, day, cursor, e.windowEnd)
	}
	return free
}

func (e *Engine) emit(free []FreeSlot, day, start, end int) []FreeSlot {
	duration := end - start
	if duration < e.minSlot {
		return free
	}
	return append(free, FreeSlot{
		DayOfWeek:       day,
		StartTime:       calendar.MinutesToTime(start),
		EndTime:         calendar.MinutesToTime(end),
		DurationMinutes: duration,
	})
}

func groupByDay(bookings []Booking) (map[int][]interval, error) {
	byDay := make(map[int][]interval, daysPerWeek)
	for _, b := range bookings {
		iv, err := toInterval(b)
		if err != nil {
			return nil, err
		}
		byDay[b.DayOfWeek] = append(byDay[b.DayOfWeek], iv)
	}
	for day := range byDay {
		list := byDay[day]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].start != list[j].start {
				return list[i].start < list[j].start
			}
			return list[i].end < list[j].end
		})
	}
	return byDay, nil
}

func toInterval(b Booking) (interval, error) {
	if b.DayOfWeek < 0 || b.DayOfWeek >= daysPerWeek {
		return interval{}, fmt.Errorf("%w: day of week %d", ErrInvalidBooking, b.DayOfWeek)
	}
	start, err := calendar.TimeToMinutes(b.StartTime)
	if err != nil {
		return interval{}, err
	}
	end, err := calendar.TimeToMinutes(b.EndTime)
	if err != nil {
		return interval{}, err
	}
	if end <= start {
		return interval{}, fmt.Errorf("%w: end %s not after start %s", ErrInvalidBooking, b.EndTime, b.StartTime)
	}
	return interval{start: start, end: end, booking: b}, nil
}

// ValidateBooking checks day and times the way the engine will read them.
func ValidateBooking(b Booking) error {
	_, err := toInterval(b)
	return err
}
