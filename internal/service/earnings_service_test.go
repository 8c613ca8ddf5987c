package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetSummary(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	john := f.addClient(t, "John", "2024-01-15", 100, true)
	jane := f.addClient(t, "Jane", "2024-02-01", 200, true)
	f.pay(t, john.ID, 100, "2024-01-20")
	f.pay(t, john.ID, 50, "2024-02-16")
	f.pay(t, jane.ID, 200, "2024-02-02")

	summary, err := f.earnings.GetSummary(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(350).Equal(summary.TotalEarnings))
	assert.True(t, decimal.NewFromInt(250).Equal(summary.CurrentMonthEarnings))
	assert.Equal(t, 3, summary.PaymentCount)
	require.Len(t, summary.Pending, 1)
	assert.Equal(t, "John", summary.Pending[0].Name)
	assert.True(t, decimal.NewFromInt(50).Equal(summary.TotalPending))
}

func TestExportStatement(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	john := f.addClient(t, "John", "2024-01-15", 100, true)
	jane := f.addClient(t, "Jane", "2024-02-01", 200, true)
	f.pay(t, john.ID, 100, "2024-01-20")
	f.pay(t, john.ID, 50, "2024-02-16")
	f.pay(t, jane.ID, 200, "2024-02-02")

	link, err := f.earnings.ExportStatement(ctx, f.userID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "statement-2024-02.csv", link.FileName)
	assert.Equal(t, 2, link.PaymentCount)
	assert.True(t, strings.HasPrefix(link.ObjectKey, "statements/"+f.userID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(link.ObjectKey, ".csv"))
	assert.Contains(t, link.DownloadURL, link.ObjectKey)

	body := string(f.files.objects[link.ObjectKey])
	assert.Equal(t, "text/csv", f.files.types[link.ObjectKey])
	assert.Equal(t, strings.Join([]string{
		"paid_on,client,amount,billing_month",
		"2024-02-02,Jane,200.00,2024-02",
		"2024-02-16,John,50.00,2024-02",
		",total,250.00,",
		"",
	}, "\n"), body)
	assert.Equal(t, int64(len(body)), link.Size)

	links, err := f.earnings.ListStatements(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, link.ID, links[0].ID)
}

func TestExportStatementRejectsBadPeriod(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.earnings.ExportStatement(ctx, f.userID, 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = f.earnings.ExportStatement(ctx, f.userID, 1800, 1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestStatementsNeedStorage(t *testing.T) {
	store := newMemStore()
	svc := NewEarningsService(memClientRepo{store}, memPaymentRepo{store}, memStatementRepo{store}, nil, 0,
		fixedClock(time.Now()), quietLogger())

	_, err := svc.ExportStatement(context.Background(), primitive.NewObjectID(), 2024, 2)
	assert.ErrorIs(t, err, ErrStorageNotEnabled)
	_, err = svc.ListStatements(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrStorageNotEnabled)
}
