package service

import (
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/observability"
	"alcyxob/trainer-desk/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentReceipt is a stored payment plus the status it left the client in.
type PaymentReceipt struct {
	Payment domain.Payment     `json:"payment"`
	Status  billing.StatusInfo `json:"paymentStatus"`
}

type PaymentService interface {
	RecordPayment(ctx context.Context, userID, clientID primitive.ObjectID, amount decimal.Decimal, paidOn time.Time) (*PaymentReceipt, error)
	ListPayments(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, userID, paymentID primitive.ObjectID) error
	GetStatus(ctx context.Context, userID, clientID primitive.ObjectID) (*billing.StatusInfo, error)
}

type paymentService struct {
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	now         Clock
	log         *logrus.Logger
}

// NewPaymentService creates a new instance of paymentService.
func NewPaymentService(clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository, now Clock, log *logrus.Logger) PaymentService {
	return &paymentService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		now:         now,
		log:         log,
	}
}

// RecordPayment stores a payment and attributes it to the billing cycle that
// contains paidOn.
func (s *paymentService) RecordPayment(ctx context.Context, userID, clientID primitive.ObjectID, amount decimal.Decimal, paidOn time.Time) (*PaymentReceipt, error) {
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateBillingDate(paidOn); err != nil {
		return nil, err
	}

	client, err := lookupClient(ctx, s.clientRepo, userID, clientID)
	if err != nil {
		return nil, err
	}

	paidOn = calendar.TruncateDay(paidOn)
	month, year, err := billing.Attribution(client.StartDate, paidOn)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ClientID: clientID,
		UserID:   userID,
		Amount:   amount,
		PaidOn:   paidOn,
		Month:    month,
		Year:     year,
	}
	paymentID, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = paymentID

	payments, err := s.paymentRepo.ListByClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	status, err := billing.CurrentStatus(*client, payments, s.now())
	if err != nil {
		return nil, err
	}
	observability.RecordPayment(string(status.Status))

	s.log.WithFields(logrus.Fields{
		"clientId": clientID.Hex(),
		"amount":   amount.String(),
		"cycle":    fmt.Sprintf("%04d-%02d", year, month),
		"status":   status.Status,
	}).Info("Payment recorded")

	return &PaymentReceipt{Payment: *payment, Status: status}, nil
}

// ListPayments returns a client's payments, newest first.
func (s *paymentService) ListPayments(ctx context.Context, userID, clientID primitive.ObjectID) ([]domain.Payment, error) {
	if _, err := lookupClient(ctx, s.clientRepo, userID, clientID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByClient(ctx, userID, clientID)
}

// DeletePayment removes a payment owned by userID.
func (s *paymentService) DeletePayment(ctx context.Context, userID, paymentID primitive.ObjectID) error {
	if err := s.paymentRepo.Delete(ctx, userID, paymentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	s.log.WithField("paymentId", paymentID.Hex()).Info("Payment deleted")
	return nil
}

// GetStatus reports the client's payment status for the cycle containing today.
func (s *paymentService) GetStatus(ctx context.Context, userID, clientID primitive.ObjectID) (*billing.StatusInfo, error) {
	client, err := lookupClient(ctx, s.clientRepo, userID, clientID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByClient(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	status, err := billing.CurrentStatus(*client, payments, s.now())
	if err != nil {
		return nil, err
	}
	observability.RecordStatus(string(status.Status))
	return &status, nil
}
