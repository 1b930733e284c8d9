package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// DebtWorkflowSvc drives the settlement state machine of a fiscal debt
type DebtWorkflowSvc interface {
	RequestPayment(ctx context.Context, member domain.Member, debtID string) (*domain.FiscalDebt, error)
	ApprovePayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error)
	RejectPayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error)
	MarkPaid(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error)
}

// DebtReaderSvc defines read operations for fiscal debts
type DebtReaderSvc interface {
	// ListMyDebts lists the member's unpaid and payment_pending debts.
	ListMyDebts(ctx context.Context, member domain.Member) ([]domain.FiscalDebt, error)
	ListPendingDebts(ctx context.Context, admin domain.Member) ([]domain.FiscalDebt, error)
}

// DebtSvcFacade combines all debt-related service interfaces
type DebtSvcFacade interface {
	DebtWorkflowSvc
	DebtReaderSvc
}
