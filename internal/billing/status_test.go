package billing

import (
	"testing"
	"time"

	"alcyxob/trainer-desk/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(amount string, paidOn time.Time) domain.Payment {
	return domain.Payment{Amount: decimal.RequireFromString(amount), PaidOn: paidOn}
}

var janCycle = Cycle{Start: date(2024, time.January, 15), End: date(2024, time.February, 14), Month: 1, Year: 2024}

func TestAggregatePartiallyPaid(t *testing.T) {
	info, err := Aggregate(decimal.NewFromInt(150), []domain.Payment{
		payment("100", date(2024, time.January, 20)),
	}, janCycle, date(2024, time.January, 25))
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallyPaid, info.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(info.TotalPaid))
	assert.True(t, decimal.NewFromInt(50).Equal(info.RemainingBalance))
	assert.Equal(t, 1, info.PaymentCount)
	assert.Nil(t, info.ExpiresAt)
	assert.Nil(t, info.DaysRemaining)
	assert.False(t, info.IsExpired)
}

func TestAggregateNotPaidIgnoresOtherCycles(t *testing.T) {
	// cached month/year claim January but paidOn sits in the next cycle
	late := payment("150", date(2024, time.February, 15))
	late.Month, late.Year = 1, 2024

	info, err := Aggregate(decimal.NewFromInt(150), []domain.Payment{
		late,
		payment("150", date(2024, time.January, 14)),
	}, janCycle, date(2024, time.January, 20))
	require.NoError(t, err)

	assert.Equal(t, StatusNotPaid, info.Status)
	assert.True(t, decimal.Zero.Equal(info.TotalPaid))
	assert.True(t, decimal.NewFromInt(150).Equal(info.RemainingBalance))
	assert.Equal(t, 0, info.PaymentCount)
}

func TestAggregatePaidCountsDown(t *testing.T) {
	now := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	info, err := Aggregate(decimal.NewFromInt(150), []domain.Payment{
		payment("75", date(2024, time.January, 15)),
		payment("80.50", date(2024, time.February, 14)),
	}, janCycle, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, info.Status)
	assert.True(t, decimal.RequireFromString("155.50").Equal(info.TotalPaid))
	assert.True(t, decimal.Zero.Equal(info.RemainingBalance))
	require.NotNil(t, info.ExpiresAt)
	assert.Equal(t, time.Date(2024, time.February, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC), *info.ExpiresAt)
	require.NotNil(t, info.DaysRemaining)
	assert.Equal(t, 5, *info.DaysRemaining)
	assert.False(t, info.IsExpired)
}

func TestAggregatePaidButExpired(t *testing.T) {
	info, err := Aggregate(decimal.NewFromInt(150), []domain.Payment{
		payment("150", date(2024, time.January, 16)),
	}, janCycle, date(2024, time.March, 1))
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, info.Status)
	require.NotNil(t, info.DaysRemaining)
	assert.Equal(t, 0, *info.DaysRemaining)
	assert.True(t, info.IsExpired)
}

func TestAggregateStatusNeverMovesBackward(t *testing.T) {
	fee := decimal.NewFromInt(150)
	rank := map[Status]int{StatusNotPaid: 0, StatusPartiallyPaid: 1, StatusPaid: 2}

	var payments []domain.Payment
	prevTotal := decimal.Zero
	prevRank := 0
	for i, amount := range []string{"20", "30", "0.01", "99.99", "10", "40"} {
		payments = append(payments, payment(amount, date(2024, time.January, 15+i)))
		info, err := Aggregate(fee, payments, janCycle, date(2024, time.January, 30))
		require.NoError(t, err)
		assert.True(t, info.TotalPaid.GreaterThanOrEqual(prevTotal))
		assert.GreaterOrEqual(t, rank[info.Status], prevRank)
		prevTotal, prevRank = info.TotalPaid, rank[info.Status]
	}
	assert.Equal(t, 2, prevRank)
}

func TestAggregateRejectsNonPositiveFee(t *testing.T) {
	_, err := Aggregate(decimal.Zero, nil, janCycle, date(2024, time.January, 20))
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Aggregate(decimal.NewFromInt(-5), nil, janCycle, date(2024, time.January, 20))
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCurrentStatus(t *testing.T) {
	client := domain.Client{StartDate: date(2024, time.January, 15), MonthlyFee: decimal.NewFromInt(150)}
	info, err := CurrentStatus(client, []domain.Payment{
		payment("150", date(2024, time.February, 16)),
	}, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, info.Status)
	assert.Equal(t, 2, info.Cycle.Month)
	assert.Equal(t, 14, *info.DaysRemaining)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount(" 99.50 ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("99.5").Equal(amount))

	for _, raw := range []string{"", "   ", "abc", "0", "-10", "0.00"} {
		_, err := ParseAmount(raw)
		require.ErrorIs(t, err, ErrInvalidAmount, raw)
	}
}
