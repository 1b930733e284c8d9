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
	"github.com/jackc/pgx/v5"
)

const periodColumns = `period_id, started_at, ended_at, created_at`

const debtSelect = `
	SELECT d.debt_id, d.period_id, d.member_id, d.amount, d.status, d.paid_at, d.created_at,
		TRIM(m.first_name || ' ' || COALESCE(m.last_name, '')) AS member_name
	FROM fiscal_debts d
	JOIN members m ON m.member_id = d.member_id`

type PgxFiscalRepository struct {
	BaseRepository
}

func newPgxFiscalRepository(pool PgxPool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

func scanPeriod(row rowScanner) (domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	if err := row.Scan(&m.PeriodID, &m.StartedAt, &m.EndedAt, &m.CreatedAt); err != nil {
		return domain.FiscalPeriod{}, err
	}
	return mapping.ToDomainFiscalPeriod(m), nil
}

func scanDebt(row rowScanner) (domain.FiscalDebt, error) {
	var m models.FiscalDebt
	err := row.Scan(&m.DebtID, &m.PeriodID, &m.MemberID, &m.Amount, &m.Status, &m.PaidAt, &m.CreatedAt, &m.MemberName)
	if err != nil {
		return domain.FiscalDebt{}, err
	}
	return mapping.ToDomainFiscalDebt(m), nil
}

func (r *PgxFiscalRepository) queryDebts(ctx context.Context, query string, args ...any) ([]domain.FiscalDebt, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal debts: %w", err)
	}
	defer rows.Close()

	debts := []domain.FiscalDebt{}
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal debt row: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal debt rows: %w", err)
	}
	return debts, nil
}

func statusStrings(statuses []domain.DebtStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *PgxFiscalRepository) FindOpenPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE ended_at IS NULL;`
	p, err := scanPeriod(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("open fiscal period: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find open fiscal period: %w", err)
	}
	return &p, nil
}

func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`
	p, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fiscal period %s: %w", periodID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}
	return &p, nil
}

func (r *PgxFiscalRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+periodColumns+` FROM fiscal_periods ORDER BY started_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", err)
	}
	return periods, nil
}

func (r *PgxFiscalRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.FiscalDebt, error) {
	d, err := scanDebt(r.Pool.QueryRow(ctx, debtSelect+` WHERE d.debt_id = $1;`, debtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fiscal debt %s: %w", debtID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find fiscal debt %s: %w", debtID, err)
	}
	return &d, nil
}

func (r *PgxFiscalRepository) ListDebtsByPeriod(ctx context.Context, periodID string) ([]domain.FiscalDebt, error) {
	return r.queryDebts(ctx, debtSelect+` WHERE d.period_id = $1 ORDER BY d.amount DESC, d.debt_id;`, periodID)
}

func (r *PgxFiscalRepository) ListDebtsByStatus(ctx context.Context, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error) {
	return r.queryDebts(ctx, debtSelect+` WHERE d.status = ANY($1) ORDER BY d.created_at DESC, d.debt_id DESC;`, statusStrings(statuses))
}

func (r *PgxFiscalRepository) ListDebtsByMember(ctx context.Context, memberID string, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error) {
	return r.queryDebts(ctx,
		debtSelect+` WHERE d.member_id = $1 AND d.status = ANY($2) ORDER BY d.created_at DESC, d.debt_id DESC;`,
		memberID, statusStrings(statuses))
}

func (r *PgxFiscalRepository) SummarizeDebts(ctx context.Context, periodID string) (domain.DebtSummary, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)
		FROM fiscal_debts
		WHERE period_id = $1;
	`
	var s domain.DebtSummary
	if err := r.Pool.QueryRow(ctx, query, periodID).Scan(&s.Total, &s.Collected); err != nil {
		return domain.DebtSummary{}, fmt.Errorf("failed to summarize fiscal debts: %w", err)
	}
	return s, nil
}

// FindOpenPeriodForUpdate locks the open period row. Must be called within a transaction.
func (r *PgxFiscalRepository) FindOpenPeriodForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE ended_at IS NULL FOR UPDATE;`
	p, err := scanPeriod(tx.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoOpenPeriod
		}
		return nil, fmt.Errorf("failed to lock open fiscal period: %w", err)
	}
	return &p, nil
}

func (r *PgxFiscalRepository) ClosePeriodInTx(ctx context.Context, tx pgx.Tx, periodID string, endedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE fiscal_periods SET ended_at = $1 WHERE period_id = $2 AND ended_at IS NULL;`, endedAt, periodID)
	if err != nil {
		return fmt.Errorf("failed to close fiscal period: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrPeriodAlreadyClosed
	}
	return nil
}

func (r *PgxFiscalRepository) SavePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	_, err := tx.Exec(ctx, `INSERT INTO fiscal_periods (`+periodColumns+`) VALUES ($1, $2, $3, $4);`,
		m.PeriodID, m.StartedAt, m.EndedAt, m.CreatedAt)
	if err != nil {
		if violatesUnique(err, openPeriodIndex) {
			return fmt.Errorf("%w: another fiscal period is already open", apperrors.ErrInvalidState)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("fiscal period %s: %w", m.PeriodID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert fiscal period: %w", err)
	}
	return nil
}

func (r *PgxFiscalRepository) SaveDebtsInTx(ctx context.Context, tx pgx.Tx, debts []domain.FiscalDebt) error {
	if len(debts) == 0 {
		return nil
	}
	query := `
		INSERT INTO fiscal_debts (debt_id, period_id, member_id, amount, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, d := range debts {
		m := mapping.ToModelFiscalDebt(d)
		batch.Queue(query, m.DebtID, m.PeriodID, m.MemberID, m.Amount, m.Status, m.PaidAt, m.CreatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert fiscal debt for member %s: %w", debts[i].MemberID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close fiscal debt batch: %w", err)
	}
	return batchErr
}

// FindDebtByIDForUpdate retrieves a debt and locks the row. Must be called within a transaction.
func (r *PgxFiscalRepository) FindDebtByIDForUpdate(ctx context.Context, tx pgx.Tx, debtID string) (*domain.FiscalDebt, error) {
	query := `
		SELECT debt_id, period_id, member_id, amount, status, paid_at, created_at, NULL::text
		FROM fiscal_debts
		WHERE debt_id = $1
		FOR UPDATE;
	`
	d, err := scanDebt(tx.QueryRow(ctx, query, debtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fiscal debt %s: %w", debtID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock fiscal debt %s: %w", debtID, err)
	}
	return &d, nil
}

func (r *PgxFiscalRepository) UpdateDebtStatusInTx(ctx context.Context, tx pgx.Tx, debt domain.FiscalDebt) error {
	m := mapping.ToModelFiscalDebt(debt)
	cmdTag, err := tx.Exec(ctx, `UPDATE fiscal_debts SET status = $1, paid_at = $2 WHERE debt_id = $3;`, m.Status, m.PaidAt, m.DebtID)
	if err != nil {
		return fmt.Errorf("failed to update fiscal debt status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("fiscal debt %s: %w", m.DebtID, apperrors.ErrNotFound)
	}
	return nil
}
