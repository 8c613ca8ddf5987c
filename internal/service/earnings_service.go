package service

import (
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"alcyxob/trainer-desk/internal/repository"
	"alcyxob/trainer-desk/internal/storage"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidPeriod     = errors.New("invalid statement period")
	ErrStatementUpload   = errors.New("failed to store statement")
	ErrDownloadURLError  = errors.New("failed to generate download URL")
	ErrStorageNotEnabled = errors.New("statement storage is not configured")
)

const statementContentType = "text/csv"

// StatementLink is a stored statement with a temporary download URL.
type StatementLink struct {
	domain.Statement
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type EarningsService interface {
	GetSummary(ctx context.Context, userID primitive.ObjectID) (*billing.EarningsSummary, error)
	ExportStatement(ctx context.Context, userID primitive.ObjectID, year, month int) (*StatementLink, error)
	ListStatements(ctx context.Context, userID primitive.ObjectID) ([]StatementLink, error)
}

type earningsService struct {
	clientRepo    repository.ClientRepository
	paymentRepo   repository.PaymentRepository
	statementRepo repository.StatementRepository
	fileStorage   storage.FileStorage // nil disables statements
	urlExpiry     time.Duration
	now           Clock
	log           *logrus.Logger
}

// NewEarningsService creates a new instance of earningsService.
func NewEarningsService(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	statementRepo repository.StatementRepository,
	fileStorage storage.FileStorage,
	urlExpiry time.Duration,
	now Clock,
	log *logrus.Logger,
) EarningsService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &earningsService{
		clientRepo:    clientRepo,
		paymentRepo:   paymentRepo,
		statementRepo: statementRepo,
		fileStorage:   fileStorage,
		urlExpiry:     urlExpiry,
		now:           now,
		log:           log,
	}
}

// GetSummary returns totals, the monthly breakdown and pending clients.
func (s *earningsService) GetSummary(ctx context.Context, userID primitive.ObjectID) (*billing.EarningsSummary, error) {
	ledgers, err := loadLedgers(ctx, s.clientRepo, s.paymentRepo, userID)
	if err != nil {
		return nil, err
	}
	summary, err := billing.Summarize(ledgers, s.now())
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExportStatement writes the payments attributed to one billing month as CSV
// to object storage and returns a presigned link to it.
func (s *earningsService) ExportStatement(ctx context.Context, userID primitive.ObjectID, year, month int) (*StatementLink, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageNotEnabled
	}
	if month < 1 || month > 12 || year <= billing.MinCycleYear || year >= billing.MaxCycleYear {
		return nil, fmt.Errorf("%w: %04d-%02d", ErrInvalidPeriod, year, month)
	}

	ledgers, err := loadLedgers(ctx, s.clientRepo, s.paymentRepo, userID)
	if err != nil {
		return nil, err
	}
	lines, err := billing.PaymentsForMonth(ledgers, year, month)
	if err != nil {
		return nil, err
	}
	body, err := renderStatement(lines, fmt.Sprintf("%04d-%02d", year, month))
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("statement-%04d-%02d.csv", year, month)
	objectKey := path.Join("statements", userID.Hex(), uuid.NewString()+".csv")
	if err := s.fileStorage.PutObject(ctx, objectKey, statementContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatementUpload, err)
	}

	statement := &domain.Statement{
		UserID:       userID,
		Month:        month,
		Year:         year,
		ObjectKey:    objectKey,
		FileName:     fileName,
		ContentType:  statementContentType,
		Size:         int64(len(body)),
		PaymentCount: len(lines),
	}
	id, err := s.statementRepo.Create(ctx, statement)
	if err != nil {
		// Metadata is lost, so the object would be unreachable
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			s.log.WithError(delErr).WithField("key", objectKey).Warn("Failed to clean up orphaned statement")
		}
		return nil, err
	}
	statement.ID = id

	s.log.WithFields(logrus.Fields{
		"userId":   userID.Hex(),
		"period":   fmt.Sprintf("%04d-%02d", year, month),
		"payments": len(lines),
	}).Info("Statement exported")

	return s.link(ctx, *statement)
}

// ListStatements returns previously exported statements with fresh links.
func (s *earningsService) ListStatements(ctx context.Context, userID primitive.ObjectID) ([]StatementLink, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageNotEnabled
	}
	statements, err := s.statementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	links := make([]StatementLink, 0, len(statements))
	for _, st := range statements {
		link, err := s.link(ctx, st)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, nil
}

func (s *earningsService) link(ctx context.Context, st domain.Statement) (*StatementLink, error) {
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, st.ObjectKey, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadURLError, err)
	}
	return &StatementLink{
		Statement:   st,
		DownloadURL: url,
		ExpiresAt:   time.Now().Add(s.urlExpiry).UTC(),
	}, nil
}

// renderStatement formats statement lines as CSV with a trailing total row.
func renderStatement(lines []billing.LedgerLine, period string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"paid_on", "client", "amount", "billing_month"}); err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, line := range lines {
		p := line.Payment
		total = total.Add(p.Amount)
		record := []string{
			calendar.FormatDate(p.PaidOn),
			line.ClientName,
			p.Amount.StringFixed(2),
			period,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"", "total", total.StringFixed(2), ""}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// loadLedgers pairs every client of the user with its payments.
func loadLedgers(ctx context.Context, clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository, userID primitive.ObjectID) ([]billing.ClientLedger, error) {
	clients, err := clientRepo.ListByUser(ctx, userID, domain.FilterAll)
	if err != nil {
		return nil, err
	}
	payments, err := paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byClient := make(map[primitive.ObjectID][]domain.Payment, len(clients))
	for _, p := range payments {
		byClient[p.ClientID] = append(byClient[p.ClientID], p)
	}
	ledgers := make([]billing.ClientLedger, 0, len(clients))
	for _, c := range clients {
		ledgers = append(ledgers, billing.ClientLedger{Client: c, Payments: byClient[c.ID]})
	}
	return ledgers, nil
}
