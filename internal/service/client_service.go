package service

import (
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/observability"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidFilter  = errors.New("unknown client filter")
)

// ClientInput carries the fields of a new client.
type ClientInput struct {
	Name             string
	StartDate        time.Time
	MonthlyFee       decimal.Decimal
	StartingWeightKg *float64
	IsActive         *bool // nil uses the configured default
	Notes            string
}

// ClientUpdate carries a partial update; nil fields are left unchanged.
type ClientUpdate struct {
	Name             *string
	StartDate        *time.Time
	MonthlyFee       *decimal.Decimal
	StartingWeightKg *float64
	IsActive         *bool
	Notes            *string
}

// ClientSummary is a client with its current billing status and next session.
type ClientSummary struct {
	Client      domain.Client         `json:"client"`
	Status      billing.StatusInfo    `json:"paymentStatus"`
	NextSession *availability.Booking `json:"nextSession,omitempty"`
}

// ClientDetails adds the client's schedules, payments and progress.
type ClientDetails struct {
	ClientSummary
	Schedules      []domain.WorkoutSchedule `json:"schedules"`
	Payments       []domain.Payment         `json:"payments"` // newest first
	Progress       []domain.ProgressEntry   `json:"progress"` // oldest first
	LatestWeightKg *float64                 `json:"latestWeightKg,omitempty"`
	WeightChangeKg *float64                 `json:"weightChangeKg,omitempty"`
}

type ClientService interface {
	CreateClient(ctx context.Context, userID primitive.ObjectID, in ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, userID, clientID primitive.ObjectID, in ClientUpdate) (*domain.Client, error)
	GetClientDetails(ctx context.Context, userID, clientID primitive.ObjectID) (*ClientDetails, error)
	ListClients(ctx context.Context, userID primitive.ObjectID, filter domain.ClientFilter) ([]ClientSummary, error)
	ToggleActive(ctx context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error)
	DeleteClient(ctx context.Context, userID, clientID primitive.ObjectID) error
}

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo    repository.ClientRepository
	paymentRepo   repository.PaymentRepository
	scheduleRepo  repository.ScheduleRepository
	progressRepo  repository.ProgressRepository
	defaultActive bool
	now           Clock
	log           *logrus.Logger
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	scheduleRepo repository.ScheduleRepository,
	progressRepo repository.ProgressRepository,
	defaultActive bool,
	now Clock,
	log *logrus.Logger,
) ClientService {
	return &clientService{
		clientRepo:    clientRepo,
		paymentRepo:   paymentRepo,
		scheduleRepo:  scheduleRepo,
		progressRepo:  progressRepo,
		defaultActive: defaultActive,
		now:           now,
		log:           log,
	}
}

// CreateClient validates and stores a new client.
func (s *clientService) CreateClient(ctx context.Context, userID primitive.ObjectID, in ClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if err := validateBillingDate(in.StartDate); err != nil {
		return nil, err
	}
	if err := billing.ValidateAmount(in.MonthlyFee); err != nil {
		return nil, fmt.Errorf("monthly fee: %w", err)
	}
	if err := validateWeight(in.StartingWeightKg); err != nil {
		return nil, err
	}

	active := s.defaultActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	client := &domain.Client{
		UserID:           userID,
		Name:             name,
		StartDate:        calendar.TruncateDay(in.StartDate),
		MonthlyFee:       in.MonthlyFee,
		StartingWeightKg: in.StartingWeightKg,
		IsActive:         active,
		Notes:            strings.TrimSpace(in.Notes),
	}
	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	s.log.WithFields(logrus.Fields{"userId": userID.Hex(), "clientId": clientID.Hex()}).Info("Client created")
	return client, nil
}

// UpdateClient applies a partial update. Stored payments keep their cached
// attribution; status is always recomputed from paidOn so a new start date
// takes effect immediately.
func (s *clientService) UpdateClient(ctx context.Context, userID, clientID primitive.ObjectID, in ClientUpdate) (*domain.Client, error) {
	client, err := s.getClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
		}
		client.Name = name
	}
	if in.StartDate != nil {
		if err := validateBillingDate(*in.StartDate); err != nil {
			return nil, err
		}
		client.StartDate = calendar.TruncateDay(*in.StartDate)
	}
	if in.MonthlyFee != nil {
		if err := billing.ValidateAmount(*in.MonthlyFee); err != nil {
			return nil, fmt.Errorf("monthly fee: %w", err)
		}
		client.MonthlyFee = *in.MonthlyFee
	}
	if in.StartingWeightKg != nil {
		if err := validateWeight(in.StartingWeightKg); err != nil {
			return nil, err
		}
		client.StartingWeightKg = in.StartingWeightKg
	}
	if in.IsActive != nil {
		client.IsActive = *in.IsActive
	}
	if in.Notes != nil {
		client.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetClientDetails assembles everything the client page shows.
func (s *clientService) GetClientDetails(ctx context.Context, userID, clientID primitive.ObjectID) (*ClientDetails, error) {
	client, err := s.getClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListByClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	progress, err := s.progressRepo.ListByClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(*client, payments, schedules)
	if err != nil {
		return nil, err
	}

	details := &ClientDetails{
		ClientSummary: summary,
		Schedules:     schedules,
		Payments:      payments,
		Progress:      progress,
	}
	if len(progress) > 0 {
		latest := progress[len(progress)-1].WeightKg
		details.LatestWeightKg = &latest
		details.WeightChangeKg = WeightChange(client.StartingWeightKg, progress)
	}
	return details, nil
}

// ListClients returns the user's clients matching filter, sorted by name.
func (s *clientService) ListClients(ctx context.Context, userID primitive.ObjectID, filter domain.ClientFilter) ([]ClientSummary, error) {
	switch filter {
	case "":
		filter = domain.FilterAll
	case domain.FilterAll, domain.FilterActive, domain.FilterPast:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}

	clients, err := s.clientRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return []ClientSummary{}, nil
	}

	payments, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	paymentsByClient := make(map[primitive.ObjectID][]domain.Payment)
	for _, p := range payments {
		paymentsByClient[p.ClientID] = append(paymentsByClient[p.ClientID], p)
	}
	schedulesByClient := make(map[primitive.ObjectID][]domain.WorkoutSchedule)
	for _, sc := range schedules {
		schedulesByClient[sc.ClientID] = append(schedulesByClient[sc.ClientID], sc)
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, client := range clients {
		summary, err := s.summarize(client, paymentsByClient[client.ID], schedulesByClient[client.ID])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ToggleActive flips a client between the active and past lists.
func (s *clientService) ToggleActive(ctx context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.getClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	client.IsActive = !client.IsActive
	if err := s.clientRepo.SetActive(ctx, userID, clientID, client.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client together with its payments, schedules and
// progress entries.
func (s *clientService) DeleteClient(ctx context.Context, userID, clientID primitive.ObjectID) error {
	if _, err := s.getClient(ctx, userID, clientID); err != nil {
		return err
	}

	payments, err := s.paymentRepo.DeleteByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	schedules, err := s.scheduleRepo.DeleteByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("delete schedules: %w", err)
	}
	progress, err := s.progressRepo.DeleteByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.clientRepo.Delete(ctx, userID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"clientId":  clientID.Hex(),
		"payments":  payments,
		"schedules": schedules,
		"progress":  progress,
	}).Info("Client deleted")
	return nil
}

func (s *clientService) getClient(ctx context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error) {
	return lookupClient(ctx, s.clientRepo, userID, clientID)
}

func (s *clientService) summarize(client domain.Client, payments []domain.Payment, schedules []domain.WorkoutSchedule) (ClientSummary, error) {
	now := s.now()
	status, err := billing.CurrentStatus(client, payments, now)
	if err != nil {
		return ClientSummary{}, fmt.Errorf("client %s: %w", client.ID.Hex(), err)
	}
	observability.RecordStatus(string(status.Status))

	names := map[primitive.ObjectID]string{client.ID: client.Name}
	return ClientSummary{
		Client:      client,
		Status:      status,
		NextSession: availability.NextSession(toBookings(schedules, names), now),
	}, nil
}

// WeightChange is the latest entry's weight minus the starting weight, or nil
// when either is missing. entries must be sorted oldest first.
func WeightChange(startingKg *float64, entries []domain.ProgressEntry) *float64 {
	if startingKg == nil || len(entries) == 0 {
		return nil
	}
	change := entries[len(entries)-1].WeightKg - *startingKg
	return &change
}

// lookupClient maps a repository miss to ErrClientNotFound. A client owned
// by another user is reported as missing.
func lookupClient(ctx context.Context, repo repository.ClientRepository, userID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := repo.GetByID(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// validateBillingDate rejects dates whose cycles would fall outside the
// supported year range.
func validateBillingDate(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: date is required", calendar.ErrInvalidDate)
	}
	if y := t.Year(); y <= billing.MinCycleYear || y >= billing.MaxCycleYear {
		return fmt.Errorf("%w: year %d out of range", calendar.ErrInvalidDate, y)
	}
	return nil
}

func validateWeight(kg *float64) error {
	if kg != nil && *kg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	return nil
}

// toBookings converts stored schedules into availability bookings.
func toBookings(schedules []domain.WorkoutSchedule, names map[primitive.ObjectID]string) []availability.Booking {
	bookings := make([]availability.Booking, 0, len(schedules))
	for _, sc := range schedules {
		bookings = append(bookings, availability.Booking{
			DayOfWeek:  sc.DayOfWeek,
			StartTime:  sc.StartTime,
			EndTime:    sc.EndTime,
			ClientID:   sc.ClientID.Hex(),
			ClientName: names[sc.ClientID],
			Location:   sc.Location,
		})
	}
	return bookings
}
