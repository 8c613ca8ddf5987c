package billing

import (
	"fmt"
	"sort"
	"time"

	"alcyxob/trainer-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// ClientLedger bundles a client with all of its payments.
type ClientLedger struct {
	Client   domain.Client
	Payments []domain.Payment
}

// MonthlyEarnings is the total attributed to one billing month.
type MonthlyEarnings struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Total        decimal.Decimal `json:"total"`
	PaymentCount int             `json:"paymentCount"`
}

// PendingClient is an active client whose current cycle is not fully paid.
type PendingClient struct {
	ClientID         string          `json:"clientId"`
	Name             string          `json:"name"`
	Status           Status          `json:"status"`
	Cycle            Cycle           `json:"cycle"`
	MonthlyFee       decimal.Decimal `json:"monthlyFee"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// EarningsSummary is a trainer-wide view over every client's payments.
type EarningsSummary struct {
	TotalEarnings        decimal.Decimal   `json:"totalEarnings"`
	CurrentMonthEarnings decimal.Decimal   `json:"currentMonthEarnings"`
	PaymentCount         int               `json:"paymentCount"`
	Monthly              []MonthlyEarnings `json:"monthly"` // newest first
	Pending              []PendingClient   `json:"pending"`
	TotalPending         decimal.Decimal   `json:"totalPending"`
}

// Summarize builds the earnings overview. Each payment is attributed by
// resolving its paidOn against the owning client's start date, so the
// breakdown follows the same rule as Aggregate even for backdated records.
func Summarize(ledgers []ClientLedger, now time.Time) (EarningsSummary, error) {
	summary := EarningsSummary{
		TotalEarnings:        decimal.Zero,
		CurrentMonthEarnings: decimal.Zero,
		TotalPending:         decimal.Zero,
		Monthly:              []MonthlyEarnings{},
		Pending:              []PendingClient{},
	}
	currentYear, currentMonth, _ := now.Date()

	type monthKey struct{ year, month int }
	monthly := make(map[monthKey]*MonthlyEarnings)

	for _, ledger := range ledgers {
		for _, p := range ledger.Payments {
			month, year, err := Attribution(ledger.Client.StartDate, p.PaidOn)
			if err != nil {
				return EarningsSummary{}, fmt.Errorf("payment %s: %w", p.ID.Hex(), err)
			}
			summary.TotalEarnings = summary.TotalEarnings.Add(p.Amount)
			summary.PaymentCount++
			if year == currentYear && month == int(currentMonth) {
				summary.CurrentMonthEarnings = summary.CurrentMonthEarnings.Add(p.Amount)
			}

			key := monthKey{year, month}
			entry, ok := monthly[key]
			if !ok {
				entry = &MonthlyEarnings{Month: month, Year: year, Total: decimal.Zero}
				monthly[key] = entry
			}
			entry.Total = entry.Total.Add(p.Amount)
			entry.PaymentCount++
		}

		if !ledger.Client.IsActive {
			continue
		}
		info, err := CurrentStatus(ledger.Client, ledger.Payments, now)
		if err != nil {
			return EarningsSummary{}, fmt.Errorf("client %s: %w", ledger.Client.ID.Hex(), err)
		}
		if info.Status == StatusPaid {
			continue
		}
		summary.Pending = append(summary.Pending, PendingClient{
			ClientID:         ledger.Client.ID.Hex(),
			Name:             ledger.Client.Name,
			Status:           info.Status,
			Cycle:            info.Cycle,
			MonthlyFee:       info.MonthlyFee,
			TotalPaid:        info.TotalPaid,
			RemainingBalance: info.RemainingBalance,
		})
		summary.TotalPending = summary.TotalPending.Add(info.RemainingBalance)
	}

	for _, entry := range monthly {
		summary.Monthly = append(summary.Monthly, *entry)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		a, b := summary.Monthly[i], summary.Monthly[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	sort.SliceStable(summary.Pending, func(i, j int) bool {
		return summary.Pending[i].Name < summary.Pending[j].Name
	})
	return summary, nil
}

// PaymentsForMonth returns the payments attributed to the given billing
// month across all ledgers, oldest first.
func PaymentsForMonth(ledgers []ClientLedger, year, month int) ([]LedgerLine, error) {
	var lines []LedgerLine
	for _, ledger := range ledgers {
		for _, p := range ledger.Payments {
			m, y, err := Attribution(ledger.Client.StartDate, p.PaidOn)
			if err != nil {
				return nil, fmt.Errorf("payment %s: %w", p.ID.Hex(), err)
			}
			if m == month && y == year {
				lines = append(lines, LedgerLine{ClientName: ledger.Client.Name, Payment: p})
			}
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Payment.PaidOn.Before(lines[j].Payment.PaidOn)
	})
	return lines, nil
}

// LedgerLine is one payment with its client's name, used for statements.
type LedgerLine struct {
	ClientName string
	Payment    domain.Payment
}
