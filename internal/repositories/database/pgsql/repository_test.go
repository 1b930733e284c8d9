package pgsql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	memberCols      = []string{"member_id", "telegram_id", "first_name", "last_name", "username", "is_admin", "is_active", "balance", "added_by", "created_at", "created_by", "last_updated_at", "last_updated_by"}
	transactionCols = []string{"transaction_id", "member_id", "product_id", "type", "amount", "status", "approved_by", "quantity", "note", "created_at", "created_by", "last_updated_at", "last_updated_by"}
	debtCols        = []string{"debt_id", "period_id", "member_id", "amount", "status", "paid_at", "created_at", "member_name"}
	periodCols      = []string{"period_id", "started_at", "ended_at", "created_at"}
)

// sqlLike matches statements containing fragment, ignoring whitespace differences.
func sqlLike(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

// beginMock returns a mock pool and a transaction started on it.
func beginMock(t *testing.T) (pgxmock.PgxPoolIface, pgx.Tx) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectBegin()
	tx, err := NewBaseRepository(mock).Begin(context.Background())
	require.NoError(t, err)
	return mock, tx
}

func TestBaseRepository_BeginCommit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewBaseRepository(mock)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Commit(ctx, tx))

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
	_, err = repo.Begin(ctx)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_FindForUpdateLocksRow(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxTransactionRepository(mock)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("FROM transactions WHERE transaction_id = $1 FOR UPDATE;")).
		WithArgs("tx-1").
		WillReturnRows(mock.NewRows(transactionCols).
			AddRow("tx-1", "m-1", "p-1", "purchase", decimal.RequireFromString("-7.00"), "pending", nil, 2, nil, now, "m-1", now, "m-1"))

	got, err := repo.FindTransactionByIDForUpdate(ctx, tx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Purchase, got.Type)
	assert.Equal(t, domain.TransactionPending, got.Status)
	assert.True(t, decimal.RequireFromString("-7").Equal(got.Amount))
	require.NotNil(t, got.ProductID)
	assert.Equal(t, "p-1", *got.ProductID)
	assert.Nil(t, got.ApprovedBy)

	mock.ExpectQuery(sqlLike("FROM transactions WHERE transaction_id = $1 FOR UPDATE;")).
		WithArgs("ghost").
		WillReturnRows(mock.NewRows(transactionCols))
	_, err = repo.FindTransactionByIDForUpdate(ctx, tx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_UpdateStatusOnlyFromPending(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxTransactionRepository(mock)
	ctx := context.Background()
	approver := "admin-1"
	txn := domain.Transaction{TransactionID: "tx-1", Status: domain.TransactionApproved, ApprovedBy: &approver}

	mock.ExpectExec(sqlLike("WHERE transaction_id = $5 AND status = 'pending';")).
		WithArgs("approved", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "tx-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateTransactionStatusInTx(ctx, tx, txn))

	mock.ExpectExec(sqlLike("WHERE transaction_id = $5 AND status = 'pending';")).
		WithArgs("approved", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "tx-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateTransactionStatusInTx(ctx, tx, txn), domain.ErrTransactionNotPending)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_PendingListNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := newPgxTransactionRepository(mock)

	mock.ExpectQuery(sqlLike("WHERE t.status = $1 ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $2;")).
		WithArgs("pending", 200).
		WillReturnRows(mock.NewRows(append(append([]string{}, transactionCols...), "product_name", "member_name")))

	txns, err := repo.ListTransactionsByStatus(context.Background(), domain.TransactionPending, 0)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_FindForUpdateLocksRow(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxMemberRepository(mock)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("FROM members WHERE member_id = $1 FOR UPDATE;")).
		WithArgs("m-1").
		WillReturnRows(mock.NewRows(memberCols).
			AddRow("m-1", int64(1001), "Aino", nil, "aino", true, true, decimal.RequireFromString("-3.50"), nil, now, "system", now, "system"))

	m, err := repo.FindMemberByIDForUpdate(ctx, tx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), m.TelegramID)
	assert.Nil(t, m.LastName)
	require.NotNil(t, m.Username)
	assert.Equal(t, "aino", *m.Username)
	assert.True(t, decimal.RequireFromString("-3.5").Equal(m.Balance))

	mock.ExpectQuery(sqlLike("FROM members WHERE member_id = $1 FOR UPDATE;")).
		WithArgs("ghost").
		WillReturnRows(mock.NewRows(memberCols))
	_, err = repo.FindMemberByIDForUpdate(ctx, tx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_LockMembersInTx(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxMemberRepository(mock)
	ctx := context.Background()

	mock.ExpectExec("^" + sqlLike("LOCK TABLE members IN EXCLUSIVE MODE;") + "$").
		WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	require.NoError(t, repo.LockMembersInTx(ctx, tx))

	mock.ExpectExec(sqlLike("LOCK TABLE members")).WillReturnError(errors.New("lock timeout"))
	assert.Error(t, repo.LockMembersInTx(ctx, tx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_CountActiveAdminsForUpdate(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxMemberRepository(mock)

	mock.ExpectQuery(sqlLike("FROM members WHERE is_admin = TRUE AND is_active = TRUE FOR UPDATE;")).
		WillReturnRows(mock.NewRows([]string{"member_id"}).AddRow("a-1").AddRow("a-2"))

	count, err := repo.CountActiveAdminsForUpdate(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_ListActiveDebtorsInTx(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxMemberRepository(mock)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("WHERE is_active = TRUE AND balance < 0 ORDER BY balance ASC, member_id;")).
		WillReturnRows(mock.NewRows(memberCols).
			AddRow("m-2", int64(1002), "Eero", nil, nil, false, true, decimal.RequireFromString("-10"), nil, now, "system", now, "system").
			AddRow("m-1", int64(1001), "Aino", nil, nil, true, true, decimal.RequireFromString("-5"), nil, now, "system", now, "system"))

	debtors, err := repo.ListActiveDebtorsInTx(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, debtors, 2)
	assert.Equal(t, "m-2", debtors[0].MemberID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFiscalRepository_FindDebtForUpdateLocksRow(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxFiscalRepository(mock)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("FROM fiscal_debts WHERE debt_id = $1 FOR UPDATE;")).
		WithArgs("d-1").
		WillReturnRows(mock.NewRows(debtCols).
			AddRow("d-1", "p-1", "m-1", decimal.RequireFromString("8.50"), "unpaid", nil, now, nil))

	d, err := repo.FindDebtByIDForUpdate(ctx, tx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DebtUnpaid, d.Status)
	assert.True(t, decimal.RequireFromString("8.5").Equal(d.Amount))
	assert.Nil(t, d.PaidAt)

	mock.ExpectQuery(sqlLike("FROM fiscal_debts WHERE debt_id = $1 FOR UPDATE;")).
		WithArgs("ghost").
		WillReturnRows(mock.NewRows(debtCols))
	_, err = repo.FindDebtByIDForUpdate(ctx, tx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFiscalRepository_FindOpenPeriodForUpdate(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxFiscalRepository(mock)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlLike("FROM fiscal_periods WHERE ended_at IS NULL FOR UPDATE;")).
		WillReturnRows(mock.NewRows(periodCols).AddRow("p-1", now, nil, now))
	p, err := repo.FindOpenPeriodForUpdate(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.PeriodID)
	assert.True(t, p.IsOpen())

	mock.ExpectQuery(sqlLike("FROM fiscal_periods WHERE ended_at IS NULL FOR UPDATE;")).
		WillReturnRows(mock.NewRows(periodCols))
	_, err = repo.FindOpenPeriodForUpdate(ctx, tx)
	assert.ErrorIs(t, err, domain.ErrNoOpenPeriod)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFiscalRepository_ClosePeriodOnlyWhileOpen(t *testing.T) {
	mock, tx := beginMock(t)
	repo := newPgxFiscalRepository(mock)
	ctx := context.Background()
	endedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(sqlLike("UPDATE fiscal_periods SET ended_at = $1 WHERE period_id = $2 AND ended_at IS NULL;")).
		WithArgs(endedAt, "p-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.ClosePeriodInTx(ctx, tx, "p-1", endedAt))

	mock.ExpectExec(sqlLike("UPDATE fiscal_periods SET ended_at = $1 WHERE period_id = $2 AND ended_at IS NULL;")).
		WithArgs(endedAt, "p-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := repo.ClosePeriodInTx(ctx, tx, "p-1", endedAt)
	assert.ErrorIs(t, err, domain.ErrPeriodAlreadyClosed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFiscalRepository_SavePeriodUniqueViolations(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	period := domain.FiscalPeriod{PeriodID: "p-2", StartedAt: now, CreatedAt: now}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "second open period",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "ux_fiscal_periods_open"},
			wantErr: apperrors.ErrInvalidState,
		},
		{
			name:    "duplicate id",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "fiscal_periods_pkey"},
			wantErr: apperrors.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, tx := beginMock(t)
			repo := newPgxFiscalRepository(mock)

			mock.ExpectExec(sqlLike("INSERT INTO fiscal_periods")).
				WithArgs("p-2", now, pgxmock.AnyArg(), now).
				WillReturnError(tt.dbErr)

			err := repo.SavePeriodInTx(context.Background(), tx, period)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other failures are not state errors", func(t *testing.T) {
		mock, tx := beginMock(t)
		repo := newPgxFiscalRepository(mock)
		mock.ExpectExec(sqlLike("INSERT INTO fiscal_periods")).WillReturnError(errors.New("connection reset"))

		err := repo.SavePeriodInTx(context.Background(), tx, period)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestFiscalRepository_PendingDebtsNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := newPgxFiscalRepository(mock)

	mock.ExpectQuery(sqlLike("WHERE d.status = ANY($1) ORDER BY d.created_at DESC, d.debt_id DESC;")).
		WithArgs([]string{"payment_pending"}).
		WillReturnRows(mock.NewRows(debtCols))

	debts, err := repo.ListDebtsByStatus(context.Background(), domain.DebtPaymentPending)
	require.NoError(t, err)
	assert.Empty(t, debts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
