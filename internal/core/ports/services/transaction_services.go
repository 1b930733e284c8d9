package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/dto"
)

// TransactionWriterSvc creates ledger transactions
type TransactionWriterSvc interface {
	// CreatePurchase charges member for a product. Auto-approved purchases hit the balance immediately.
	CreatePurchase(ctx context.Context, member domain.Member, req dto.CreatePurchaseRequest) (*domain.Transaction, error)

	// CreatePayment records a pending payment on behalf of another member.
	CreatePayment(ctx context.Context, admin domain.Member, req dto.CreatePaymentRequest) (*domain.Transaction, error)

	// CreatePaymentRequest records a pending self-service payment.
	CreatePaymentRequest(ctx context.Context, member domain.Member, req dto.PaymentSelfRequest) (*domain.Transaction, error)
}

// TransactionApprovalSvc moves pending transactions to a terminal status
type TransactionApprovalSvc interface {
	ApproveTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error)
}

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	ListMemberTransactions(ctx context.Context, member domain.Member, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListPendingTransactions(ctx context.Context, admin domain.Member) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionApprovalSvc
	TransactionReaderSvc
}
