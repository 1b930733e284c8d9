package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	"github.com/SscSPs/club_tab_app/internal/models"
	"github.com/SscSPs/club_tab_app/internal/utils/mapping"
	"github.com/SscSPs/club_tab_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Listing queries join the product and member names for display.
const transactionSelect = `
	SELECT t.transaction_id, t.member_id, t.product_id, t.type, t.amount, t.status, t.approved_by, t.quantity, t.note,
		t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
		p.name AS product_name,
		TRIM(m.first_name || ' ' || COALESCE(m.last_name, '')) AS member_name
	FROM transactions t
	JOIN members m ON m.member_id = t.member_id
	LEFT JOIN products p ON p.product_id = t.product_id`

const transactionColumns = `transaction_id, member_id, product_id, type, amount, status, approved_by, quantity, note,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool PgxPool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransactionRow(row rowScanner, withNames bool) (domain.Transaction, error) {
	var m models.Transaction
	dest := []any{
		&m.TransactionID,
		&m.MemberID,
		&m.ProductID,
		&m.Type,
		&m.Amount,
		&m.Status,
		&m.ApprovedBy,
		&m.Quantity,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
	if withNames {
		dest = append(dest, &m.ProductName, &m.MemberName)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransactionRow(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := transactionSelect + ` WHERE t.transaction_id = $1;`
	t, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &t, nil
}

// ListTransactionsByMember uses keyset pagination on (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []any{memberID}
	query := transactionSelect + ` WHERE t.member_id = $1`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt, id)
		query += ` AND (t.created_at, t.transaction_id) < ($2, $3)`
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query member transactions: %w", err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 200
	}
	query := transactionSelect + ` WHERE t.status = $1 ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by status: %w", err)
	}
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) SummarizeApprovedTransactions(ctx context.Context, from, to time.Time) (map[domain.TransactionType]domain.TransactionSummary, error) {
	query := `
		SELECT type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = 'approved' AND created_at >= $1 AND created_at <= $2
		GROUP BY type;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	defer rows.Close()

	summary := map[domain.TransactionType]domain.TransactionSummary{}
	for rows.Next() {
		var (
			txType string
			count  int
			total  decimal.Decimal
		)
		if err := rows.Scan(&txType, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction summary: %w", err)
		}
		summary[domain.TransactionType(txType)] = domain.TransactionSummary{Count: count, Total: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction summary: %w", err)
	}
	return summary, nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.MemberID,
		m.ProductID,
		m.Type,
		m.Amount,
		m.Status,
		m.ApprovedBy,
		m.Quantity,
		m.Note,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// FindTransactionByIDForUpdate retrieves a transaction and locks the row.
// Must be called within a transaction.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	t, err := scanTransactionRow(tx.QueryRow(ctx, query, transactionID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return &t, nil
}

func (r *PgxTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	query := `
		UPDATE transactions
		SET status = $1, approved_by = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $5 AND status = 'pending';
	`
	cmdTag, err := tx.Exec(ctx, query, m.Status, m.ApprovedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTransactionNotPending
	}
	return nil
}
