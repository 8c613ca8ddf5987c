package repository

import (
	"alcyxob/trainer-desk/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores trainer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ClientRepository stores client records. Every lookup is scoped to the
// owning user so one trainer can never read another trainer's clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, clientID primitive.ObjectID) (*domain.Client, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.ClientFilter) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	SetActive(ctx context.Context, userID, clientID primitive.ObjectID, active bool) error
	Delete(ctx context.Context, userID, clientID primitive.ObjectID) error
}

// PaymentRepository stores payments. Payments are never updated.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error)
	ListByClient(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.Payment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error)
	Delete(ctx context.Context, userID, paymentID primitive.ObjectID) error
	DeleteByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
}

// ScheduleRepository stores weekly workout schedules.
type ScheduleRepository interface {
	CreateMany(ctx context.Context, schedules []*domain.WorkoutSchedule) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, scheduleID primitive.ObjectID) (*domain.WorkoutSchedule, error)
	ListByClient(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.WorkoutSchedule, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSchedule, error)
	Update(ctx context.Context, schedule *domain.WorkoutSchedule) error
	Delete(ctx context.Context, userID, scheduleID primitive.ObjectID) error
	DeleteByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
}

// ProgressRepository stores weight progress entries.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.ProgressEntry, error)
	ListByClient(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.ProgressEntry, error)
	Delete(ctx context.Context, userID, entryID primitive.ObjectID) error
	DeleteByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
}

// StatementRepository stores metadata about exported earnings statements.
type StatementRepository interface {
	Create(ctx context.Context, statement *domain.Statement) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Statement, error)
}
