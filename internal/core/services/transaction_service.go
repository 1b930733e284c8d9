package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const pendingListLimit = 200

type transactionService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	txRepo      portsrepo.TransactionRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	productRepo portsrepo.ProductReader
	autoApprove bool
}

// NewTransactionService creates the transaction state machine.
// With autoApprove, purchases are created approved and applied to the balance at once.
func NewTransactionService(
	txManager portsrepo.TransactionManager,
	txRepo portsrepo.TransactionRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	productRepo portsrepo.ProductReader,
	autoApprove bool,
	opts ...ServiceOption,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: newBaseService(opts...),
		txManager:   txManager,
		txRepo:      txRepo,
		memberRepo:  memberRepo,
		productRepo: productRepo,
		autoApprove: autoApprove,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func recordApplied(t domain.Transaction) {
	metrics.TransactionsTotal.WithLabelValues(string(t.Type), string(t.Status)).Inc()
	if t.Status == domain.TransactionApproved {
		metrics.BalanceDeltaTotal.Add(t.Amount.Abs().InexactFloat64())
	}
}

func (s *transactionService) CreatePurchase(ctx context.Context, member domain.Member, req dto.CreatePurchaseRequest) (*domain.Transaction, error) {
	if err := member.EnsureActive(); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindProductByID(ctx, req.ProductID)
	if err != nil {
		if apperrors.Code(err) == apperrors.CodeNotFound {
			return nil, domain.ErrProductUnavailable
		}
		s.LogError(ctx, err, "Failed to load product", slog.String("product_id", req.ProductID))
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductUnavailable
	}

	// Price is copied now; later price edits do not touch this row.
	amount, err := domain.PurchaseAmount(product.Price, quantity)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	productID := product.ProductID
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      member.MemberID,
		ProductID:     &productID,
		Type:          domain.Purchase,
		Amount:        amount,
		Status:        domain.TransactionPending,
		Quantity:      quantity,
		AuditFields:   domain.NewAuditFields(member.MemberID, now),
	}
	if s.autoApprove {
		// Auto-approved purchases are recorded as self-approved.
		if err := txn.Approve(member.MemberID, now); err != nil {
			return nil, err
		}
	}

	err = s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		if err := s.txRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
			return err
		}
		if txn.Status != domain.TransactionApproved {
			return nil
		}
		_, err := s.memberRepo.AdjustMemberBalanceInTx(ctx, tx, member.MemberID, txn.BalanceDelta(), now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create purchase",
			slog.String("member_id", member.MemberID),
			slog.String("product_id", product.ProductID))
		return nil, err
	}

	recordApplied(txn)
	s.LogInfo(ctx, "Purchase recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("member_id", member.MemberID),
		slog.String("amount", txn.Amount.String()),
		slog.String("status", string(txn.Status)))
	s.publishAfterCommit(ctx, s.ledgerEvent(domain.LedgerTransactionCreated, member.MemberID, member.MemberID, txn.TransactionID, txn.Amount, string(txn.Status)))

	productName := product.Name
	txn.ProductName = &productName
	return &txn, nil
}

// CreatePayment records a payment an admin received on behalf of another member.
// The target only needs to exist; inactive members may still settle up.
func (s *transactionService) CreatePayment(ctx context.Context, admin domain.Member, req dto.CreatePaymentRequest) (*domain.Transaction, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.FindMemberByID(ctx, req.MemberID); err != nil {
		return nil, err
	}
	return s.createPendingPayment(ctx, admin.MemberID, req.MemberID, req.Amount, req.Note)
}

func (s *transactionService) CreatePaymentRequest(ctx context.Context, member domain.Member, req dto.PaymentSelfRequest) (*domain.Transaction, error) {
	if err := member.EnsureActive(); err != nil {
		return nil, err
	}
	return s.createPendingPayment(ctx, member.MemberID, member.MemberID, req.Amount, req.Note)
}

func (s *transactionService) createPendingPayment(ctx context.Context, actorID, ownerID string, amount decimal.Decimal, note *string) (*domain.Transaction, error) {
	if err := domain.ValidatePaymentAmount(amount); err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      ownerID,
		Type:          domain.Payment,
		Amount:        amount,
		Status:        domain.TransactionPending,
		Quantity:      1,
		Note:          note,
		AuditFields:   domain.NewAuditFields(actorID, now),
	}

	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		return s.txRepo.SaveTransactionInTx(ctx, tx, txn)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create payment",
			slog.String("member_id", ownerID),
			slog.String("created_by", actorID))
		return nil, err
	}

	recordApplied(txn)
	s.LogInfo(ctx, "Payment recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("member_id", ownerID),
		slog.String("created_by", actorID),
		slog.String("amount", amount.String()))
	s.publishAfterCommit(ctx, s.ledgerEvent(domain.LedgerTransactionCreated, actorID, ownerID, txn.TransactionID, amount, string(txn.Status)))
	return &txn, nil
}

// ApproveTransaction finalises a pending transaction and applies its amount to the
// owner's balance in the same unit of work.
func (s *transactionService) ApproveTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error) {
	return s.finalize(ctx, admin, transactionID, true)
}

func (s *transactionService) RejectTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error) {
	return s.finalize(ctx, admin, transactionID, false)
}

func (s *transactionService) finalize(ctx context.Context, admin domain.Member, transactionID string, approve bool) (*domain.Transaction, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	var (
		txn   *domain.Transaction
		owner *domain.Member
	)
	now := s.Now()
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var err error
		txn, err = s.txRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if approve {
			err = txn.Approve(admin.MemberID, now)
		} else {
			err = txn.Reject(admin.MemberID, now)
		}
		if err != nil {
			return err
		}

		// Lock the owner before the status write so concurrent approvals for the
		// same member queue on the row.
		owner, err = s.memberRepo.FindMemberByIDForUpdate(ctx, tx, txn.MemberID)
		if err != nil {
			return err
		}
		if err := s.txRepo.UpdateTransactionStatusInTx(ctx, tx, *txn); err != nil {
			return err
		}
		if !approve {
			return nil
		}
		newBalance, err := s.memberRepo.AdjustMemberBalanceInTx(ctx, tx, owner.MemberID, txn.BalanceDelta(), now)
		if err != nil {
			return err
		}
		owner.Balance = newBalance
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to finalize transaction",
			slog.String("transaction_id", transactionID),
			slog.Bool("approve", approve),
			slog.String("admin_id", admin.MemberID))
		return nil, err
	}

	recordApplied(*txn)
	s.LogInfo(ctx, "Transaction finalized",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)),
		slog.String("admin_id", admin.MemberID))

	kind := domain.LedgerTransactionRejected
	if approve {
		kind = domain.LedgerTransactionApproved
	}
	s.publishAfterCommit(ctx, s.ledgerEvent(kind, admin.MemberID, txn.MemberID, txn.TransactionID, txn.Amount, string(txn.Status)))

	if txn.Type == domain.Payment {
		event := domain.EventPaymentRejected
		if approve {
			event = domain.EventPaymentApproved
		}
		s.notifyAfterCommit(ctx, event, *owner, map[string]string{
			"user":    owner.FirstName,
			"amount":  domain.MoneyVar(txn.Amount),
			"balance": domain.MoneyVar(owner.Balance),
		})
	}
	return txn, nil
}

func (s *transactionService) ListMemberTransactions(ctx context.Context, member domain.Member, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	txns, next, err := s.txRepo.ListTransactionsByMember(ctx, member.MemberID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list member transactions", slog.String("member_id", member.MemberID))
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionListResponse(txns),
		NextToken:    next,
	}, nil
}

func (s *transactionService) ListPendingTransactions(ctx context.Context, admin domain.Member) ([]domain.Transaction, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	txns, err := s.txRepo.ListTransactionsByStatus(ctx, domain.TransactionPending, pendingListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txns, nil
}
