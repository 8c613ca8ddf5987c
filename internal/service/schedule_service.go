package service

import (
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/observability"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrMissingSelection = errors.New("at least one day must be selected")
)

// ScheduleInput describes a weekly block to create on each of Days.
type ScheduleInput struct {
	Days      []int
	StartTime string
	EndTime   string
	Location  string
}

// ScheduleUpdate replaces the block of a single schedule row.
type ScheduleUpdate struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	Location  string
}

// WeekAvailability is the trainer's weekly calendar.
type WeekAvailability struct {
	Days               []availability.DayAvailability `json:"days"`
	WindowStart        string                         `json:"windowStart"`
	WindowEnd          string                         `json:"windowEnd"`
	TotalFreeMinutes   int                            `json:"totalFreeMinutes"`
	TotalBookedEntries int                            `json:"totalBookedEntries"`
}

type ScheduleService interface {
	CreateSchedules(ctx context.Context, userID, clientID primitive.ObjectID, in ScheduleInput) ([]domain.WorkoutSchedule, error)
	ListSchedules(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.WorkoutSchedule, error)
	UpdateSchedule(ctx context.Context, userID, scheduleID primitive.ObjectID, in ScheduleUpdate) (*domain.WorkoutSchedule, error)
	DeleteSchedule(ctx context.Context, userID, scheduleID primitive.ObjectID) error
	GetAvailability(ctx context.Context, userID primitive.ObjectID) (*WeekAvailability, error)
}

type scheduleService struct {
	clientRepo   repository.ClientRepository
	scheduleRepo repository.ScheduleRepository
	engine       *availability.Engine
	windowStart  string
	windowEnd    string
	log          *logrus.Logger
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	clientRepo repository.ClientRepository,
	scheduleRepo repository.ScheduleRepository,
	engine *availability.Engine,
	cfg availability.Config,
	log *logrus.Logger,
) ScheduleService {
	return &scheduleService{
		clientRepo:   clientRepo,
		scheduleRepo: scheduleRepo,
		engine:       engine,
		windowStart:  cfg.WindowStart,
		windowEnd:    cfg.WindowEnd,
		log:          log,
	}
}

// CreateSchedules stores one schedule row per selected weekday. Duplicate
// days in the selection are collapsed.
func (s *scheduleService) CreateSchedules(ctx context.Context, userID, clientID primitive.ObjectID, in ScheduleInput) ([]domain.WorkoutSchedule, error) {
	if len(in.Days) == 0 {
		return nil, ErrMissingSelection
	}
	if _, err := lookupClient(ctx, s.clientRepo, userID, clientID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(in.Days))
	days := make([]int, 0, len(in.Days))
	for _, d := range in.Days {
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Ints(days)

	rows := make([]*domain.WorkoutSchedule, 0, len(days))
	for _, day := range days {
		row := &domain.WorkoutSchedule{
			ClientID:  clientID,
			UserID:    userID,
			DayOfWeek: day,
			StartTime: strings.TrimSpace(in.StartTime),
			EndTime:   strings.TrimSpace(in.EndTime),
			Location:  strings.TrimSpace(in.Location),
		}
		if err := validateSchedule(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	ids, err := s.scheduleRepo.CreateMany(ctx, rows)
	if err != nil {
		return nil, err
	}

	created := make([]domain.WorkoutSchedule, 0, len(rows))
	for i, row := range rows {
		if i < len(ids) {
			row.ID = ids[i]
		}
		created = append(created, *row)
	}
	s.log.WithFields(logrus.Fields{"clientId": clientID.Hex(), "days": days}).Info("Schedules created")
	return created, nil
}

func (s *scheduleService) ListSchedules(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.WorkoutSchedule, error) {
	if _, err := lookupClient(ctx, s.clientRepo, userID, clientID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByClient(ctx, userID, clientID)
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, userID, scheduleID primitive.ObjectID, in ScheduleUpdate) (*domain.WorkoutSchedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, userID, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	schedule.DayOfWeek = in.DayOfWeek
	schedule.StartTime = strings.TrimSpace(in.StartTime)
	schedule.EndTime = strings.TrimSpace(in.EndTime)
	schedule.Location = strings.TrimSpace(in.Location)
	if err := validateSchedule(schedule); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, userID, scheduleID primitive.ObjectID) error {
	if err := s.scheduleRepo.Delete(ctx, userID, scheduleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return nil
}

// GetAvailability builds the weekly calendar from the schedules of active
// clients only.
func (s *scheduleService) GetAvailability(ctx context.Context, userID primitive.ObjectID) (*WeekAvailability, error) {
	clients, err := s.clientRepo.ListByUser(ctx, userID, domain.FilterActive)
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	active := schedules[:0:0]
	for _, sc := range schedules {
		if _, ok := names[sc.ClientID]; ok {
			active = append(active, sc)
		}
	}

	started := time.Now()
	days, err := s.engine.Week(toBookings(active, names))
	if err != nil {
		return nil, err
	}
	observability.ObserveAvailability(time.Since(started))

	week := &WeekAvailability{
		Days:        days,
		WindowStart: s.windowStart,
		WindowEnd:   s.windowEnd,
	}
	for _, d := range days {
		week.TotalBookedEntries += len(d.Booked)
		for _, f := range d.Free {
			week.TotalFreeMinutes += f.DurationMinutes
		}
	}
	return week, nil
}

func validateSchedule(sc *domain.WorkoutSchedule) error {
	err := availability.ValidateBooking(availability.Booking{
		DayOfWeek: sc.DayOfWeek,
		StartTime: sc.StartTime,
		EndTime:   sc.EndTime,
	})
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}
