package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type fiscalService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	fiscalRepo portsrepo.FiscalRepositoryFacade
	memberRepo portsrepo.MemberRepositoryFacade
	txRepo     portsrepo.TransactionReader
}

func NewFiscalService(
	txManager portsrepo.TransactionManager,
	fiscalRepo portsrepo.FiscalRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	txRepo portsrepo.TransactionReader,
	opts ...ServiceOption,
) portssvc.FiscalSvcFacade {
	return &fiscalService{
		BaseService: newBaseService(opts...),
		txManager:   txManager,
		fiscalRepo:  fiscalRepo,
		memberRepo:  memberRepo,
		txRepo:      txRepo,
	}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// ClosePeriod ends the open period, turns every active negative balance into an
// unpaid debt, zeroes all balances and opens the next period, all in one unit of work.
// Debtors are notified only after commit.
//
// The period to close is pinned before the lock is taken, so a second request racing
// the first finds a different open period and fails instead of closing the new one.
func (s *fiscalService) ClosePeriod(ctx context.Context, admin domain.Member, periodID string) (*domain.CloseResult, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	if periodID == "" {
		open, err := s.fiscalRepo.FindOpenPeriod(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, domain.ErrNoOpenPeriod
			}
			return nil, err
		}
		periodID = open.PeriodID
	} else {
		pinned, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
		if err != nil {
			return nil, err
		}
		if !pinned.IsOpen() {
			return nil, domain.ErrPeriodAlreadyClosed
		}
	}

	var (
		result  domain.CloseResult
		debtors []domain.Member
		debts   []domain.FiscalDebt
	)
	now := s.Now()
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		// Excludes balance-affecting commits until the rollover is done.
		if err := s.memberRepo.LockMembersInTx(ctx, tx); err != nil {
			return err
		}
		current, err := s.fiscalRepo.FindOpenPeriodForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if current.PeriodID != periodID {
			return domain.ErrPeriodAlreadyClosed
		}
		if err := s.fiscalRepo.ClosePeriodInTx(ctx, tx, current.PeriodID, now); err != nil {
			return err
		}

		debtors, err = s.memberRepo.ListActiveDebtorsInTx(ctx, tx)
		if err != nil {
			return err
		}
		debts = make([]domain.FiscalDebt, 0, len(debtors))
		for _, m := range debtors {
			debts = append(debts, domain.NewDebtFromBalance(uuid.NewString(), current.PeriodID, m, now))
		}
		if err := s.fiscalRepo.SaveDebtsInTx(ctx, tx, debts); err != nil {
			return err
		}

		reset, err := s.memberRepo.ResetAllBalancesInTx(ctx, tx, now)
		if err != nil {
			return err
		}

		next := domain.FiscalPeriod{PeriodID: uuid.NewString(), StartedAt: now, CreatedAt: now}
		if err := s.fiscalRepo.SavePeriodInTx(ctx, tx, next); err != nil {
			return err
		}

		result = domain.CloseResult{
			ClosedPeriodID: current.PeriodID,
			DebtsCreated:   len(debts),
			NewPeriodID:    next.PeriodID,
			MembersReset:   reset,
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close fiscal period", slog.String("admin_id", admin.MemberID))
		return nil, err
	}

	metrics.FiscalPeriodCloses.Inc()
	metrics.FiscalDebtsCreated.Add(float64(result.DebtsCreated))
	s.LogInfo(ctx, "Fiscal period closed",
		slog.String("closed_period_id", result.ClosedPeriodID),
		slog.String("new_period_id", result.NewPeriodID),
		slog.Int("debts_created", result.DebtsCreated),
		slog.Int64("members_reset", result.MembersReset))

	events := []domain.LedgerEvent{s.ledgerEvent(domain.LedgerPeriodClosed, admin.MemberID, "", result.ClosedPeriodID, sumDebts(debts), "closed")}
	s.publishAfterCommit(ctx, events...)

	if s.notifier != nil && len(debtors) > 0 {
		targets := make([]domain.NotificationTarget, len(debtors))
		for i, m := range debtors {
			targets[i] = domain.NotificationTarget{
				Member: m,
				Vars: map[string]string{
					"user":   m.FirstName,
					"amount": domain.MoneyVar(debts[i].Amount),
				},
			}
		}
		s.afterCommit(ctx, "notify:"+string(domain.EventFiscalPeriodClosed), func(ctx context.Context) {
			sent := s.notifier.NotifyMany(ctx, domain.EventFiscalPeriodClosed, targets)
			s.LogInfo(ctx, "Debtors notified", slog.Int("sent", sent), slog.Int("debtors", len(targets)))
		})
	}

	return &result, nil
}

func sumDebts(debts []domain.FiscalDebt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total
}

// EnsureOpenPeriod opens the first period on an empty ledger. It is a no-op otherwise.
func (s *fiscalService) EnsureOpenPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	if p, err := s.fiscalRepo.FindOpenPeriod(ctx); err == nil {
		return p, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	period := domain.FiscalPeriod{PeriodID: uuid.NewString(), StartedAt: now, CreatedAt: now}
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		return s.fiscalRepo.SavePeriodInTx(ctx, tx, period)
	})
	if err != nil {
		// Lost a race with another bootstrap; the winner's period is the open one.
		if errors.Is(err, apperrors.ErrInvalidState) {
			return s.fiscalRepo.FindOpenPeriod(ctx)
		}
		s.LogError(ctx, err, "Failed to open fiscal period")
		return nil, err
	}
	s.LogInfo(ctx, "Opened fiscal period", slog.String("period_id", period.PeriodID))
	return &period, nil
}

func (s *fiscalService) GetCurrentPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	return s.fiscalRepo.FindOpenPeriod(ctx)
}

func (s *fiscalService) ListPeriods(ctx context.Context, admin domain.Member) ([]domain.FiscalPeriod, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	return s.fiscalRepo.ListPeriods(ctx)
}

func (s *fiscalService) GetPeriodStats(ctx context.Context, admin domain.Member, periodID string) (*domain.PeriodStats, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	period, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	from, to := period.Window(s.Now())
	byType, err := s.txRepo.SummarizeApprovedTransactions(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize period transactions", slog.String("period_id", periodID))
		return nil, err
	}
	debts, err := s.fiscalRepo.SummarizeDebts(ctx, periodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize period debts", slog.String("period_id", periodID))
		return nil, err
	}

	// Purchases are stored negative; stats report magnitudes.
	purchases := byType[domain.Purchase]
	purchases.Total = purchases.Total.Abs()
	return &domain.PeriodStats{
		Period:    *period,
		Purchases: purchases,
		Payments:  byType[domain.Payment],
		Debts:     debts,
	}, nil
}

func (s *fiscalService) ListPeriodDebts(ctx context.Context, admin domain.Member, periodID string) ([]domain.FiscalDebt, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	if _, err := s.fiscalRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	return s.fiscalRepo.ListDebtsByPeriod(ctx, periodID)
}
