package service

import (
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/calendar"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSchedulesOnePerDay(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	c := f.addClient(t, "John", "2024-01-15", 100, true)

	_, err := f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{StartTime: "07:00", EndTime: "08:00"})
	require.ErrorIs(t, err, ErrMissingSelection)

	created, err := f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{
		Days:      []int{5, 1, 5},
		StartTime: "07:00",
		EndTime:   "08:00",
		Location:  "Gym",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 1, created[0].DayOfWeek)
	assert.Equal(t, 5, created[1].DayOfWeek)
	assert.False(t, created[0].ID.IsZero())

	list, err := f.schedules.ListSchedules(ctx, f.userID, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateSchedulesValidation(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	c := f.addClient(t, "John", "2024-01-15", 100, true)

	_, err := f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{Days: []int{1}, StartTime: "09:00", EndTime: "08:00"})
	assert.ErrorIs(t, err, availability.ErrInvalidBooking)

	_, err = f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{Days: []int{1}, StartTime: "9am", EndTime: "10:00"})
	assert.ErrorIs(t, err, calendar.ErrInvalidFormat)

	_, err = f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{Days: []int{9}, StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, availability.ErrInvalidBooking)

	_, err = f.schedules.CreateSchedules(ctx, f.userID, primitive.NewObjectID(), ScheduleInput{Days: []int{1}, StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	assert.Empty(t, f.store.schedules)
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	c := f.addClient(t, "John", "2024-01-15", 100, true)
	created, err := f.schedules.CreateSchedules(ctx, f.userID, c.ID, ScheduleInput{Days: []int{1}, StartTime: "07:00", EndTime: "08:00"})
	require.NoError(t, err)
	id := created[0].ID

	updated, err := f.schedules.UpdateSchedule(ctx, f.userID, id, ScheduleUpdate{DayOfWeek: 3, StartTime: "17:30", EndTime: "18:30", Location: "Park"})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.DayOfWeek)
	assert.Equal(t, "Park", updated.Location)

	_, err = f.schedules.UpdateSchedule(ctx, f.userID, id, ScheduleUpdate{DayOfWeek: 3, StartTime: "18:30", EndTime: "18:30"})
	assert.ErrorIs(t, err, availability.ErrInvalidBooking)

	_, err = f.schedules.UpdateSchedule(ctx, primitive.NewObjectID(), id, ScheduleUpdate{DayOfWeek: 3, StartTime: "07:00", EndTime: "08:00"})
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	require.NoError(t, f.schedules.DeleteSchedule(ctx, f.userID, id))
	assert.ErrorIs(t, f.schedules.DeleteSchedule(ctx, f.userID, id), ErrScheduleNotFound)
}

func TestGetAvailabilityUsesActiveClientsOnly(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	john := f.addClient(t, "John", "2024-01-15", 100, true)
	former := f.addClient(t, "Former", "2023-06-01", 80, false)

	_, err := f.schedules.CreateSchedules(ctx, f.userID, john.ID, ScheduleInput{Days: []int{1}, StartTime: "07:00", EndTime: "08:00"})
	require.NoError(t, err)
	_, err = f.schedules.CreateSchedules(ctx, f.userID, former.ID, ScheduleInput{Days: []int{1}, StartTime: "18:00", EndTime: "19:00"})
	require.NoError(t, err)

	week, err := f.schedules.GetAvailability(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "06:00", week.WindowStart)
	assert.Equal(t, "22:00", week.WindowEnd)
	assert.Equal(t, 1, week.TotalBookedEntries)

	monday := week.Days[1]
	require.Len(t, monday.Booked, 1)
	assert.Equal(t, "John", monday.Booked[0].ClientName)
	assert.Equal(t, []availability.FreeSlot{
		{DayOfWeek: 1, StartTime: "06:00", EndTime: "07:00", DurationMinutes: 60},
		{DayOfWeek: 1, StartTime: "08:00", EndTime: "22:00", DurationMinutes: 840},
	}, monday.Free)
	assert.Equal(t, 6*960+60+840, week.TotalFreeMinutes)
}
