package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// FiscalPeriodReader defines read operations for fiscal periods
type FiscalPeriodReader interface {
	FindOpenPeriod(ctx context.Context) (*domain.FiscalPeriod, error)
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// ListPeriods lists periods newest first.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}

// FiscalDebtReader defines read operations for fiscal debts
type FiscalDebtReader interface {
	FindDebtByID(ctx context.Context, debtID string) (*domain.FiscalDebt, error)

	// ListDebtsByPeriod lists a period's debts, largest first.
	ListDebtsByPeriod(ctx context.Context, periodID string) ([]domain.FiscalDebt, error)

	// ListDebtsByStatus lists debts in any of statuses, newest first.
	ListDebtsByStatus(ctx context.Context, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error)

	// ListDebtsByMember lists the member's debts in any of statuses, newest first.
	ListDebtsByMember(ctx context.Context, memberID string, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error)

	SummarizeDebts(ctx context.Context, periodID string) (domain.DebtSummary, error)
}

// FiscalTxSupport defines fiscal writes that run inside a database transaction
type FiscalTxSupport interface {
	// FindOpenPeriodForUpdate locks the open period row.
	FindOpenPeriodForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error)

	// ClosePeriodInTx sets ended_at on an open period. Returns ErrPeriodAlreadyClosed otherwise.
	ClosePeriodInTx(ctx context.Context, tx pgx.Tx, periodID string, endedAt time.Time) error

	SavePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.FiscalPeriod) error
	SaveDebtsInTx(ctx context.Context, tx pgx.Tx, debts []domain.FiscalDebt) error

	// FindDebtByIDForUpdate selects a debt and locks the row.
	FindDebtByIDForUpdate(ctx context.Context, tx pgx.Tx, debtID string) (*domain.FiscalDebt, error)

	// UpdateDebtStatusInTx persists status and paid_at.
	UpdateDebtStatusInTx(ctx context.Context, tx pgx.Tx, debt domain.FiscalDebt) error
}

// FiscalRepositoryFacade combines all fiscal repository interfaces
type FiscalRepositoryFacade interface {
	FiscalPeriodReader
	FiscalDebtReader
	FiscalTxSupport
}
