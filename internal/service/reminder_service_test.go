package service

import (
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedTrainer(t *testing.T, store *memStore, email string) primitive.ObjectID {
	t.Helper()
	id, err := memUserRepo{store}.Create(context.Background(), &domain.User{Name: email, Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return id
}

func seedClient(t *testing.T, store *memStore, userID primitive.ObjectID, name, start string, fee int64, paidOn ...string) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Client{UserID: userID, Name: name, StartDate: mustDate(t, start), MonthlyFee: decimal.NewFromInt(fee), IsActive: true}
	_, err := memClientRepo{store}.Create(ctx, c)
	require.NoError(t, err)
	for _, on := range paidOn {
		_, err := memPaymentRepo{store}.Create(ctx, &domain.Payment{ClientID: c.ID, UserID: userID, Amount: decimal.NewFromInt(fee), PaidOn: mustDate(t, on)})
		require.NoError(t, err)
	}
}

func TestReminderRunOnce(t *testing.T) {
	now := time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC)
	store := newMemStore()

	owing := seedTrainer(t, store, "a@example.com")
	seedClient(t, store, owing, "John", "2024-01-15", 100)

	expiring := seedTrainer(t, store, "b@example.com")
	seedClient(t, store, expiring, "Jane", "2024-01-23", 100, "2024-01-25")

	settled := seedTrainer(t, store, "c@example.com")
	seedClient(t, store, settled, "Max", "2024-02-15", 100, "2024-02-16")

	mailer := &recordingMailer{}
	svc := NewReminderService(memUserRepo{store}, memClientRepo{store}, memPaymentRepo{store}, mailer, 3, fixedClock(now), quietLogger())

	sent, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, mailer.sent, 2)

	assert.Equal(t, "a@example.com", mailer.sent[0].To)
	assert.Equal(t, "Dues summary for 2024-02-20", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "John: 0.00 of 100.00 paid, 100.00 due")

	assert.Equal(t, "b@example.com", mailer.sent[1].To)
	assert.Contains(t, mailer.sent[1].Body, "Jane: ends 2024-02-22 (3 days left)")
}

func TestRenderDigest(t *testing.T) {
	body := RenderDigest("Sam", DuesDigest{
		Unpaid: []billing.PendingClient{{
			Name:             "John",
			MonthlyFee:       decimal.NewFromInt(150),
			TotalPaid:        decimal.NewFromInt(100),
			RemainingBalance: decimal.NewFromInt(50),
			Cycle:            billing.Cycle{Start: mustDate(t, "2024-02-15"), End: mustDate(t, "2024-03-14")},
		}},
	})
	assert.Contains(t, body, "Hi Sam,")
	assert.Contains(t, body, "John: 100.00 of 150.00 paid, 50.00 due (cycle 2024-02-15 to 2024-03-14)")
	assert.NotContains(t, body, "ending soon")
	assert.True(t, DuesDigest{}.Empty())
}

func TestReminderSchedule(t *testing.T) {
	svc := NewReminderService(nil, nil, nil, &recordingMailer{}, 3, fixedClock(time.Now().UTC()), quietLogger())

	_, err := svc.Schedule("not a cron spec")
	assert.Error(t, err)

	c, err := svc.Schedule("0 8 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
