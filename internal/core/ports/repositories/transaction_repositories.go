package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByMember returns a page of the member's transactions, newest first.
	ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsByStatus returns transactions in status, newest first.
	ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error)

	// SummarizeApprovedTransactions aggregates approved transactions created within [from, to].
	SummarizeApprovedTransactions(ctx context.Context, from, to time.Time) (map[domain.TransactionType]domain.TransactionSummary, error)
}

// TransactionTxSupport defines ledger transaction writes that run inside a database transaction
type TransactionTxSupport interface {
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error

	// FindTransactionByIDForUpdate selects a transaction and locks the row.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// UpdateTransactionStatusInTx persists status and approver. It only matches pending rows.
	UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error
}

// TransactionRepositoryFacade combines all ledger transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionTxSupport
}
