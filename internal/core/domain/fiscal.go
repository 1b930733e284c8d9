package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	ErrNoOpenPeriod        = fmt.Errorf("%w: no open fiscal period", apperrors.ErrInvalidState)
	ErrPeriodAlreadyClosed = fmt.Errorf("%w: fiscal period is already closed", apperrors.ErrInvalidState)
	ErrNotDebtOwner        = fmt.Errorf("%w: not your debt", apperrors.ErrForbidden)
	ErrDebtNotUnpaid       = fmt.Errorf("%w: debt is not unpaid", apperrors.ErrInvalidState)
	ErrDebtNotPending      = fmt.Errorf("%w: debt has no pending payment", apperrors.ErrInvalidState)
	ErrDebtAlreadyPaid     = fmt.Errorf("%w: debt is already paid", apperrors.ErrInvalidState)
)

// FiscalPeriod is an accounting window. EndedAt is nil while the period is open.
type FiscalPeriod struct {
	PeriodID  string     `json:"periodID"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsOpen reports whether the period is the current one.
func (p FiscalPeriod) IsOpen() bool {
	return p.EndedAt == nil
}

// Window returns the period bounds, using now as the end of an open period.
func (p FiscalPeriod) Window(now time.Time) (time.Time, time.Time) {
	if p.EndedAt != nil {
		return p.StartedAt, *p.EndedAt
	}
	return p.StartedAt, now
}

// DebtStatus tracks settlement of a fiscal debt.
type DebtStatus string

const (
	DebtUnpaid         DebtStatus = "unpaid"
	DebtPaymentPending DebtStatus = "payment_pending"
	DebtPaid           DebtStatus = "paid"
)

// FiscalDebt is the magnitude of a member's negative balance when a period closed.
// Amount is fixed at creation; settling a debt never touches Member.Balance.
type FiscalDebt struct {
	DebtID    string          `json:"debtID"`
	PeriodID  string          `json:"periodID"`
	MemberID  string          `json:"memberID"`
	Amount    decimal.Decimal `json:"amount"`
	Status    DebtStatus      `json:"status"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`

	// Read-model only.
	MemberName *string `json:"memberName,omitempty"`
}

// NewDebtFromBalance snapshots a negative balance as an unpaid debt.
func NewDebtFromBalance(debtID, periodID string, member Member, now time.Time) FiscalDebt {
	return FiscalDebt{
		DebtID:    debtID,
		PeriodID:  periodID,
		MemberID:  member.MemberID,
		Amount:    member.Balance.Abs(),
		Status:    DebtUnpaid,
		CreatedAt: now,
	}
}

// RequestPayment is called by the debtor after paying out of band.
func (d *FiscalDebt) RequestPayment(memberID string) error {
	if d.MemberID != memberID {
		return ErrNotDebtOwner
	}
	if d.Status != DebtUnpaid {
		return ErrDebtNotUnpaid
	}
	d.Status = DebtPaymentPending
	return nil
}

// ApprovePayment confirms a requested payment.
func (d *FiscalDebt) ApprovePayment(now time.Time) error {
	if d.Status != DebtPaymentPending {
		return ErrDebtNotPending
	}
	d.Status = DebtPaid
	d.PaidAt = &now
	return nil
}

// RejectPayment sends a requested payment back to unpaid.
func (d *FiscalDebt) RejectPayment() error {
	if d.Status != DebtPaymentPending {
		return ErrDebtNotPending
	}
	d.Status = DebtUnpaid
	d.PaidAt = nil
	return nil
}

// MarkPaid settles the debt directly from any non-paid status.
func (d *FiscalDebt) MarkPaid(now time.Time) error {
	if d.Status == DebtPaid {
		return ErrDebtAlreadyPaid
	}
	d.Status = DebtPaid
	d.PaidAt = &now
	return nil
}

// CloseResult is returned by a successful fiscal period close.
type CloseResult struct {
	ClosedPeriodID string `json:"closedPeriodID"`
	DebtsCreated   int    `json:"debtsCreated"`
	NewPeriodID    string `json:"newPeriodID"`
	MembersReset   int64  `json:"membersReset"`
}

// DebtSummary aggregates the debts of one period.
type DebtSummary struct {
	Total     decimal.Decimal `json:"total"`
	Collected decimal.Decimal `json:"collected"`
}

// Outstanding is the part of Total not yet paid.
func (s DebtSummary) Outstanding() decimal.Decimal {
	return s.Total.Sub(s.Collected)
}

// PeriodStats summarises activity within a fiscal period.
type PeriodStats struct {
	Period    FiscalPeriod       `json:"period"`
	Purchases TransactionSummary `json:"purchases"`
	Payments  TransactionSummary `json:"payments"`
	Debts     DebtSummary        `json:"debts"`
}
