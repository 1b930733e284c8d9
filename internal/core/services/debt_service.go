package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
)

type debtService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	fiscalRepo portsrepo.FiscalRepositoryFacade
	memberRepo portsrepo.MemberReader
}

// NewDebtService creates the settlement workflow for fiscal debts.
// Settling a debt never changes a member balance.
func NewDebtService(
	txManager portsrepo.TransactionManager,
	fiscalRepo portsrepo.FiscalRepositoryFacade,
	memberRepo portsrepo.MemberReader,
	opts ...ServiceOption,
) portssvc.DebtSvcFacade {
	return &debtService{
		BaseService: newBaseService(opts...),
		txManager:   txManager,
		fiscalRepo:  fiscalRepo,
		memberRepo:  memberRepo,
	}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func (s *debtService) RequestPayment(ctx context.Context, member domain.Member, debtID string) (*domain.FiscalDebt, error) {
	if err := member.EnsureActive(); err != nil {
		return nil, err
	}
	return s.transition(ctx, member.MemberID, debtID, "", func(d *domain.FiscalDebt) error {
		return d.RequestPayment(member.MemberID)
	})
}

func (s *debtService) ApprovePayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	now := s.Now()
	return s.transition(ctx, admin.MemberID, debtID, domain.EventDebtPaymentApproved, func(d *domain.FiscalDebt) error {
		return d.ApprovePayment(now)
	})
}

func (s *debtService) RejectPayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	return s.transition(ctx, admin.MemberID, debtID, domain.EventDebtPaymentRejected, func(d *domain.FiscalDebt) error {
		return d.RejectPayment()
	})
}

// MarkPaid settles a debt paid outside the request flow. The debtor gets the
// same message as for an approved payment.
func (s *debtService) MarkPaid(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	now := s.Now()
	return s.transition(ctx, admin.MemberID, debtID, domain.EventDebtPaymentApproved, func(d *domain.FiscalDebt) error {
		return d.MarkPaid(now)
	})
}

// transition locks the debt, applies change and persists the new status.
// An empty notify skips the debtor notification.
func (s *debtService) transition(ctx context.Context, actorID, debtID string, notify domain.EventType, change func(d *domain.FiscalDebt) error) (*domain.FiscalDebt, error) {
	var debt *domain.FiscalDebt
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var err error
		debt, err = s.fiscalRepo.FindDebtByIDForUpdate(ctx, tx, debtID)
		if err != nil {
			return err
		}
		if err := change(debt); err != nil {
			return err
		}
		return s.fiscalRepo.UpdateDebtStatusInTx(ctx, tx, *debt)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change debt status",
			slog.String("debt_id", debtID),
			slog.String("actor_id", actorID))
		return nil, err
	}

	metrics.DebtTransitions.WithLabelValues(string(debt.Status)).Inc()
	s.LogInfo(ctx, "Debt status changed",
		slog.String("debt_id", debt.DebtID),
		slog.String("status", string(debt.Status)),
		slog.String("actor_id", actorID))
	s.publishAfterCommit(ctx, s.ledgerEvent(domain.LedgerDebtStatusChanged, actorID, debt.MemberID, debt.DebtID, debt.Amount, string(debt.Status)))

	if notify != "" && s.notifier != nil {
		committed := *debt
		s.afterCommit(ctx, "notify:"+string(notify), func(ctx context.Context) {
			debtor, err := s.memberRepo.FindMemberByID(ctx, committed.MemberID)
			if err != nil {
				s.LogError(ctx, err, "Failed to load debtor for notification", slog.String("debt_id", committed.DebtID))
				return
			}
			s.notifier.Notify(ctx, notify, *debtor, map[string]string{
				"user":   debtor.FirstName,
				"amount": domain.MoneyVar(committed.Amount),
			})
		})
	}
	return debt, nil
}

func (s *debtService) ListMyDebts(ctx context.Context, member domain.Member) ([]domain.FiscalDebt, error) {
	return s.fiscalRepo.ListDebtsByMember(ctx, member.MemberID, domain.DebtUnpaid, domain.DebtPaymentPending)
}

func (s *debtService) ListPendingDebts(ctx context.Context, admin domain.Member) ([]domain.FiscalDebt, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	return s.fiscalRepo.ListDebtsByStatus(ctx, domain.DebtPaymentPending)
}
