package service

import (
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProgressNotFound = errors.New("progress entry not found")

type ProgressService interface {
	AddEntry(ctx context.Context, userID, clientID primitive.ObjectID, date time.Time, weightKg float64, notes string) (*domain.ProgressEntry, error)
	ListEntries(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.ProgressEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error
}

type progressService struct {
	clientRepo   repository.ClientRepository
	progressRepo repository.ProgressRepository
	log          *logrus.Logger
}

func NewProgressService(clientRepo repository.ClientRepository, progressRepo repository.ProgressRepository, log *logrus.Logger) ProgressService {
	return &progressService{
		clientRepo:   clientRepo,
		progressRepo: progressRepo,
		log:          log,
	}
}

// AddEntry records a weigh-in.
func (s *progressService) AddEntry(ctx context.Context, userID, clientID primitive.ObjectID, date time.Time, weightKg float64, notes string) (*domain.ProgressEntry, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", calendar.ErrInvalidDate)
	}
	if _, err := lookupClient(ctx, s.clientRepo, userID, clientID); err != nil {
		return nil, err
	}

	entry := &domain.ProgressEntry{
		ClientID: clientID,
		UserID:   userID,
		Date:     calendar.TruncateDay(date),
		WeightKg: weightKg,
		Notes:    strings.TrimSpace(notes),
	}
	id, err := s.progressRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

// ListEntries returns a client's entries, oldest first.
func (s *progressService) ListEntries(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	if _, err := lookupClient(ctx, s.clientRepo, userID, clientID); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByClient(ctx, userID, clientID)
}

func (s *progressService) DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if err := s.progressRepo.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return err
	}
	return nil
}
