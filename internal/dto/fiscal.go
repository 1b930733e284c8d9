package dto

import (
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClosePeriodRequest optionally pins the period being closed.
// A stale periodID makes the close fail instead of closing a newer period.
type ClosePeriodRequest struct {
	PeriodID string `json:"periodID" binding:"omitempty,uuid"`
}

// FiscalPeriodResponse is the public shape of a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID  string     `json:"periodID"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	IsOpen    bool       `json:"isOpen"`
}

// FiscalDebtResponse is the public shape of a fiscal debt.
type FiscalDebtResponse struct {
	DebtID     string            `json:"debtID"`
	PeriodID   string            `json:"periodID"`
	MemberID   string            `json:"memberID"`
	MemberName *string           `json:"memberName,omitempty"`
	Amount     decimal.Decimal   `json:"amount"`
	Status     domain.DebtStatus `json:"status"`
	PaidAt     *time.Time        `json:"paidAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// PeriodStatsResponse summarises a fiscal period.
type PeriodStatsResponse struct {
	Period          FiscalPeriodResponse `json:"period"`
	PurchaseCount   int                  `json:"purchaseCount"`
	PurchaseTotal   decimal.Decimal      `json:"purchaseTotal"`
	PaymentCount    int                  `json:"paymentCount"`
	PaymentTotal    decimal.Decimal      `json:"paymentTotal"`
	TotalDebt       decimal.Decimal      `json:"totalDebt"`
	DebtCollected   decimal.Decimal      `json:"debtCollected"`
	DebtOutstanding decimal.Decimal      `json:"debtOutstanding"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:  p.PeriodID,
		StartedAt: p.StartedAt,
		EndedAt:   p.EndedAt,
		IsOpen:    p.IsOpen(),
	}
}

// ToFiscalPeriodListResponse converts a slice of domain.FiscalPeriod
func ToFiscalPeriodListResponse(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	out := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return out
}

// ToFiscalDebtResponse converts a domain.FiscalDebt
func ToFiscalDebtResponse(d *domain.FiscalDebt) FiscalDebtResponse {
	return FiscalDebtResponse{
		DebtID:     d.DebtID,
		PeriodID:   d.PeriodID,
		MemberID:   d.MemberID,
		MemberName: d.MemberName,
		Amount:     d.Amount,
		Status:     d.Status,
		PaidAt:     d.PaidAt,
		CreatedAt:  d.CreatedAt,
	}
}

// ToFiscalDebtListResponse converts a slice of domain.FiscalDebt
func ToFiscalDebtListResponse(debts []domain.FiscalDebt) []FiscalDebtResponse {
	out := make([]FiscalDebtResponse, len(debts))
	for i := range debts {
		out[i] = ToFiscalDebtResponse(&debts[i])
	}
	return out
}

// ToPeriodStatsResponse flattens domain.PeriodStats
func ToPeriodStatsResponse(s *domain.PeriodStats) PeriodStatsResponse {
	return PeriodStatsResponse{
		Period:          ToFiscalPeriodResponse(&s.Period),
		PurchaseCount:   s.Purchases.Count,
		PurchaseTotal:   s.Purchases.Total,
		PaymentCount:    s.Payments.Count,
		PaymentTotal:    s.Payments.Total,
		TotalDebt:       s.Debts.Total,
		DebtCollected:   s.Debts.Collected,
		DebtOutstanding: s.Debts.Outstanding(),
	}
}
