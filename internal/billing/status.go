package billing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"alcyxob/trainer-desk/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

// Status classifies how much of a cycle's fee has been paid.
type Status string

const (
	StatusPaid          Status = "Paid"
	StatusPartiallyPaid Status = "Partially paid"
	StatusNotPaid       Status = "Not paid"
)

// StatusInfo is the aggregate of one client's payments within one cycle.
// ExpiresAt and DaysRemaining are only set when the cycle is fully paid.
type StatusInfo struct {
	Status           Status          `json:"status"`
	Cycle            Cycle           `json:"cycle"`
	MonthlyFee       decimal.Decimal `json:"monthlyFee"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentCount     int             `json:"paymentCount"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	DaysRemaining    *int            `json:"daysRemaining,omitempty"`
	IsExpired        bool            `json:"isExpired"`
}

// ParseAmount parses a user supplied amount string.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, raw)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}

// PaymentsInCycle filters payments whose paidOn calendar day falls inside the
// cycle. The cached Month/Year fields are deliberately ignored.
func PaymentsInCycle(payments []domain.Payment, cycle Cycle) []domain.Payment {
	var matched []domain.Payment
	for _, p := range payments {
		if cycle.Contains(p.PaidOn) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Aggregate sums the payments that fall in cycle and classifies the result
// against monthlyFee. now is only used for the expiry countdown.
func Aggregate(monthlyFee decimal.Decimal, payments []domain.Payment, cycle Cycle, now time.Time) (StatusInfo, error) {
	if err := ValidateAmount(monthlyFee); err != nil {
		return StatusInfo{}, fmt.Errorf("monthly fee: %w", err)
	}

	total := decimal.Zero
	count := 0
	for _, p := range PaymentsInCycle(payments, cycle) {
		total = total.Add(p.Amount)
		count++
	}

	info := StatusInfo{
		Cycle:            cycle,
		MonthlyFee:       monthlyFee,
		TotalPaid:        total,
		RemainingBalance: decimal.Max(decimal.Zero, monthlyFee.Sub(total)),
		PaymentCount:     count,
	}

	switch {
	case total.GreaterThanOrEqual(monthlyFee):
		info.Status = StatusPaid
		expiresAt := cycle.ExpiresAt(now.Location())
		raw := int(math.Ceil(float64(expiresAt.Sub(now)) / float64(24*time.Hour)))
		days := raw
		if days < 0 {
			days = 0
		}
		info.ExpiresAt = &expiresAt
		info.DaysRemaining = &days
		info.IsExpired = raw < 0
	case total.IsPositive():
		info.Status = StatusPartiallyPaid
	default:
		info.Status = StatusNotPaid
	}
	return info, nil
}

// CurrentStatus resolves the cycle containing today and aggregates the
// client's payments for it. now should already be in the trainer's zone.
func CurrentStatus(client domain.Client, payments []domain.Payment, now time.Time) (StatusInfo, error) {
	cycle, err := ResolveCycle(client.StartDate, now)
	if err != nil {
		return StatusInfo{}, err
	}
	return Aggregate(client.MonthlyFee, payments, cycle, now)
}
