package billing

import (
	"testing"
	"time"

	"alcyxob/trainer-desk/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	john := domain.Client{
		ID:         primitive.NewObjectID(),
		Name:       "John Doe",
		StartDate:  date(2024, time.January, 15),
		MonthlyFee: decimal.NewFromInt(150),
		IsActive:   true,
	}
	jane := domain.Client{
		ID:         primitive.NewObjectID(),
		Name:       "Jane Smith",
		StartDate:  date(2024, time.February, 1),
		MonthlyFee: decimal.NewFromInt(200),
		IsActive:   true,
	}
	past := domain.Client{
		ID:         primitive.NewObjectID(),
		Name:       "Former Client",
		StartDate:  date(2023, time.June, 1),
		MonthlyFee: decimal.NewFromInt(100),
		IsActive:   false,
	}

	summary, err := Summarize([]ClientLedger{
		{Client: john, Payments: []domain.Payment{
			payment("150", date(2024, time.January, 15)),
			payment("100", date(2024, time.February, 20)), // Feb 15 cycle, partial
		}},
		{Client: jane, Payments: []domain.Payment{
			payment("200", date(2024, time.February, 1)),
			payment("200", date(2024, time.March, 1)),
		}},
		{Client: past, Payments: []domain.Payment{
			payment("100", date(2023, time.June, 3)),
		}},
	}, now)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(750).Equal(summary.TotalEarnings))
	assert.True(t, decimal.NewFromInt(200).Equal(summary.CurrentMonthEarnings))
	assert.Equal(t, 5, summary.PaymentCount)

	require.Len(t, summary.Monthly, 4)
	assert.Equal(t, 3, summary.Monthly[0].Month)
	assert.Equal(t, 2, summary.Monthly[1].Month)
	assert.True(t, decimal.NewFromInt(300).Equal(summary.Monthly[1].Total))
	assert.Equal(t, 2, summary.Monthly[1].PaymentCount)
	assert.Equal(t, 1, summary.Monthly[2].Month)
	assert.Equal(t, 2023, summary.Monthly[3].Year)

	require.Len(t, summary.Pending, 1)
	assert.Equal(t, "John Doe", summary.Pending[0].Name)
	assert.Equal(t, StatusPartiallyPaid, summary.Pending[0].Status)
	assert.True(t, decimal.NewFromInt(50).Equal(summary.TotalPending))
}

func TestSummarizeEmpty(t *testing.T) {
	summary, err := Summarize(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, summary.TotalEarnings.IsZero())
	assert.Empty(t, summary.Monthly)
	assert.Empty(t, summary.Pending)
}

func TestPaymentsForMonth(t *testing.T) {
	john := domain.Client{Name: "John", StartDate: date(2024, time.January, 15)}
	lines, err := PaymentsForMonth([]ClientLedger{{Client: john, Payments: []domain.Payment{
		payment("50", date(2024, time.February, 10)),
		payment("100", date(2024, time.January, 20)),
		payment("150", date(2024, time.February, 15)),
	}}}, 2024, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, date(2024, time.January, 20), lines[0].Payment.PaidOn)
	assert.Equal(t, "John", lines[1].ClientName)
}
