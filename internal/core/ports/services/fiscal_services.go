package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// FiscalSvcFacade defines fiscal period operations
type FiscalSvcFacade interface {
	// ClosePeriod atomically ends the open period, snapshots debts, resets balances and opens a new period.
	// A non-empty periodID must name the open period, otherwise the close fails with InvalidState.
	ClosePeriod(ctx context.Context, admin domain.Member, periodID string) (*domain.CloseResult, error)

	// EnsureOpenPeriod opens a period if none is open.
	EnsureOpenPeriod(ctx context.Context) (*domain.FiscalPeriod, error)

	GetCurrentPeriod(ctx context.Context) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, admin domain.Member) ([]domain.FiscalPeriod, error)
	GetPeriodStats(ctx context.Context, admin domain.Member, periodID string) (*domain.PeriodStats, error)
	ListPeriodDebts(ctx context.Context, admin domain.Member, periodID string) ([]domain.FiscalDebt, error)
}
