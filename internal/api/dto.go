package api

import (
	"alcyxob/trainer-desk/internal/billing"
	"alcyxob/trainer-desk/internal/calendar"
	"alcyxob/trainer-desk/internal/domain"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// --- Response DTOs ---

type ClientResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	StartDate        string    `json:"startDate"` // YYYY-MM-DD
	MonthlyFee       string    `json:"monthlyFee"`
	StartingWeightKg *float64  `json:"startingWeightKg,omitempty"`
	IsActive         bool      `json:"isActive"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type PaymentResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Amount   string `json:"amount"`
	PaidOn   string `json:"paidOn"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

type ScheduleResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location,omitempty"`
}

type ProgressResponse struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId"`
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
	Notes    string  `json:"notes,omitempty"`
}

// StatusResponse is billing.StatusInfo with calendar dates as strings.
type StatusResponse struct {
	Status           billing.Status `json:"status"`
	CycleStart       string         `json:"cycleStart"`
	CycleEnd         string         `json:"cycleEnd"`
	CycleMonth       int            `json:"cycleMonth"`
	CycleYear        int            `json:"cycleYear"`
	MonthlyFee       string         `json:"monthlyFee"`
	TotalPaid        string         `json:"totalPaid"`
	RemainingBalance string         `json:"remainingBalance"`
	PaymentCount     int            `json:"paymentCount"`
	ExpiresAt        *time.Time     `json:"expiresAt,omitempty"`
	DaysRemaining    *int           `json:"daysRemaining,omitempty"`
	IsExpired        bool           `json:"isExpired"`
}

func MapClientToResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:               c.ID.Hex(),
		Name:             c.Name,
		StartDate:        calendar.FormatDate(c.StartDate),
		MonthlyFee:       c.MonthlyFee.StringFixed(2),
		StartingWeightKg: c.StartingWeightKg,
		IsActive:         c.IsActive,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func MapPaymentToResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID.Hex(),
		ClientID: p.ClientID.Hex(),
		Amount:   p.Amount.StringFixed(2),
		PaidOn:   calendar.FormatDate(p.PaidOn),
		Month:    p.Month,
		Year:     p.Year,
	}
}

func MapPaymentsToResponse(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = MapPaymentToResponse(&payments[i])
	}
	return out
}

func MapScheduleToResponse(s *domain.WorkoutSchedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:        s.ID.Hex(),
		ClientID:  s.ClientID.Hex(),
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Location:  s.Location,
	}
	if s.DayOfWeek >= 0 && s.DayOfWeek < len(domain.WeekdayNames) {
		resp.DayName = domain.WeekdayNames[s.DayOfWeek]
	}
	return resp
}

func MapSchedulesToResponse(schedules []domain.WorkoutSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		out[i] = MapScheduleToResponse(&schedules[i])
	}
	return out
}

func MapProgressToResponse(e *domain.ProgressEntry) ProgressResponse {
	return ProgressResponse{
		ID:       e.ID.Hex(),
		ClientID: e.ClientID.Hex(),
		Date:     calendar.FormatDate(e.Date),
		WeightKg: e.WeightKg,
		Notes:    e.Notes,
	}
}

func MapProgressEntriesToResponse(entries []domain.ProgressEntry) []ProgressResponse {
	out := make([]ProgressResponse, len(entries))
	for i := range entries {
		out[i] = MapProgressToResponse(&entries[i])
	}
	return out
}

func MapStatusToResponse(s *billing.StatusInfo) StatusResponse {
	return StatusResponse{
		Status:           s.Status,
		CycleStart:       calendar.FormatDate(s.Cycle.Start),
		CycleEnd:         calendar.FormatDate(s.Cycle.End),
		CycleMonth:       s.Cycle.Month,
		CycleYear:        s.Cycle.Year,
		MonthlyFee:       s.MonthlyFee.StringFixed(2),
		TotalPaid:        s.TotalPaid.StringFixed(2),
		RemainingBalance: s.RemainingBalance.StringFixed(2),
		PaymentCount:     s.PaymentCount,
		ExpiresAt:        s.ExpiresAt,
		DaysRemaining:    s.DaysRemaining,
		IsExpired:        s.IsExpired,
	}
}

// --- Request helpers ---

// parseAmount accepts a JSON number or a decimal string.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return billing.ParseAmount("")
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", billing.ErrInvalidAmount, err)
		}
		s = unquoted
	}
	return billing.ParseAmount(s)
}

// parseOptionalDate parses a YYYY-MM-DD pointer field.
func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	d, err := calendar.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
