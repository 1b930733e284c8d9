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
	"github.com/shopspring/decimal"
)

const memberColumns = `member_id, telegram_id, first_name, last_name, username, is_admin, is_active, balance,
	added_by, created_at, created_by, last_updated_at, last_updated_by`

// activeMemberClause is the one definition of an active member used by every member query.
const activeMemberClause = `is_active = TRUE`

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool PgxPool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row rowScanner) (domain.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.TelegramID,
		&m.FirstName,
		&m.LastName,
		&m.Username,
		&m.IsAdmin,
		&m.IsActive,
		&m.Balance,
		&m.AddedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Member{}, err
	}
	return mapping.ToDomainMember(m), nil
}

func collectMembers(rows pgx.Rows) ([]domain.Member, error) {
	defer rows.Close()
	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	m, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}
	return &m, nil
}

func (r *PgxMemberRepository) FindMemberByTelegramID(ctx context.Context, telegramID int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE telegram_id = $1;`
	m, err := scanMember(r.Pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member with telegram id %d: %w", telegramID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find member by telegram ID %d: %w", telegramID, err)
	}
	return &m, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	switch {
	case filter.ActiveOnly:
		query += ` WHERE ` + activeMemberClause
	case filter.PendingOnly:
		query += ` WHERE NOT (` + activeMemberClause + `)`
	}
	query += ` ORDER BY first_name, member_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	return collectMembers(rows)
}

func (r *PgxMemberRepository) ListLeaderboard(ctx context.Context, limit int) ([]domain.Member, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE ` + activeMemberClause + `
		ORDER BY balance ASC, first_name
		LIMIT $1;`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	return collectMembers(rows)
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		INSERT INTO members (member_id, telegram_id, first_name, last_name, username, is_admin, is_active, balance,
			added_by, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MemberID,
		m.TelegramID,
		m.FirstName,
		m.LastName,
		m.Username,
		m.IsAdmin,
		m.IsActive,
		m.Balance,
		m.AddedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("member with telegram id %d: %w", m.TelegramID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMemberProfile(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, username = $3, last_updated_at = $4, last_updated_by = $5
		WHERE member_id = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.FirstName, m.LastName, m.Username, m.LastUpdatedAt, m.LastUpdatedBy, m.MemberID)
	if err != nil {
		return fmt.Errorf("failed to update member profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", m.MemberID, apperrors.ErrNotFound)
	}
	return nil
}

// FindMemberByIDForUpdate retrieves a member and locks the row.
// Must be called within a transaction.
func (r *PgxMemberRepository) FindMemberByIDForUpdate(ctx context.Context, tx pgx.Tx, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1 FOR UPDATE;`
	m, err := scanMember(tx.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock member %s: %w", memberID, err)
	}
	return &m, nil
}

// AdjustMemberBalanceInTx applies delta relative to the stored value, never read-modify-write.
func (r *PgxMemberRepository) AdjustMemberBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE members
		SET balance = balance + $2, last_updated_at = $3
		WHERE member_id = $1
		RETURNING balance;
	`
	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, query, memberID, delta, now).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: member %s not found during balance update", apperrors.ErrNotFound, memberID)
		}
		return decimal.Zero, fmt.Errorf("failed to update balance for member %s: %w", memberID, err)
	}
	return balance, nil
}

// LockMembersInTx blocks concurrent member writes until tx ends. Plain reads continue.
func (r *PgxMemberRepository) LockMembersInTx(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `LOCK TABLE members IN EXCLUSIVE MODE;`); err != nil {
		return fmt.Errorf("failed to lock members table: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) ListActiveDebtorsInTx(ctx context.Context, tx pgx.Tx) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE ` + activeMemberClause + ` AND balance < 0
		ORDER BY balance ASC, member_id;`
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query debtors: %w", err)
	}
	return collectMembers(rows)
}

func (r *PgxMemberRepository) ResetAllBalancesInTx(ctx context.Context, tx pgx.Tx, now time.Time) (int64, error) {
	cmdTag, err := tx.Exec(ctx, `UPDATE members SET balance = 0, last_updated_at = $1 WHERE balance <> 0;`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to reset balances: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *PgxMemberRepository) CountActiveAdminsForUpdate(ctx context.Context, tx pgx.Tx) (int, error) {
	rows, err := tx.Query(ctx, `SELECT member_id FROM members WHERE is_admin = TRUE AND ` + activeMemberClause + ` FOR UPDATE;`)
	if err != nil {
		return 0, fmt.Errorf("failed to lock admin rows: %w", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating admin rows: %w", err)
	}
	return count, nil
}

func (r *PgxMemberRepository) UpdateMemberFlagsInTx(ctx context.Context, tx pgx.Tx, member domain.Member) error {
	query := `
		UPDATE members
		SET is_active = $1, is_admin = $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, member.IsActive, member.IsAdmin, member.LastUpdatedAt, member.LastUpdatedBy, member.MemberID)
	if err != nil {
		return fmt.Errorf("failed to update member flags: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", member.MemberID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxMemberRepository) DeactivateNonAdminsInTx(ctx context.Context, tx pgx.Tx, actorID string, now time.Time) (int64, error) {
	query := `
		UPDATE members
		SET is_active = FALSE, balance = 0, last_updated_at = $1, last_updated_by = $2
		WHERE is_admin = FALSE AND ` + activeMemberClause + `;
	`
	cmdTag, err := tx.Exec(ctx, query, now, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate non-admin members: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
