package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a member by id regardless of active state.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByTelegramID retrieves a member by their external identity.
	FindMemberByTelegramID(ctx context.Context, telegramID int64) (*domain.Member, error)

	// ListMembers lists members ordered by first name.
	ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error)

	// ListLeaderboard lists active members ordered by balance, lowest first.
	ListLeaderboard(ctx context.Context, limit int) ([]domain.Member, error)
}

// MemberWriter defines write operations outside of a ledger transaction
type MemberWriter interface {
	// SaveMember inserts a new member. Returns ErrDuplicate for a known telegram id.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMemberProfile updates names and username only.
	UpdateMemberProfile(ctx context.Context, member domain.Member) error
}

// MemberTransactionSupport defines member operations that run inside a ledger transaction
type MemberTransactionSupport interface {
	// FindMemberByIDForUpdate selects a member and locks the row.
	FindMemberByIDForUpdate(ctx context.Context, tx pgx.Tx, memberID string) (*domain.Member, error)

	// AdjustMemberBalanceInTx adds delta to the stored balance and returns the new value.
	AdjustMemberBalanceInTx(ctx context.Context, tx pgx.Tx, memberID string, delta decimal.Decimal, now time.Time) (decimal.Decimal, error)

	// LockMembersInTx excludes every concurrent balance change until tx ends.
	LockMembersInTx(ctx context.Context, tx pgx.Tx) error

	// ListActiveDebtorsInTx lists active members with a negative balance.
	ListActiveDebtorsInTx(ctx context.Context, tx pgx.Tx) ([]domain.Member, error)

	// ResetAllBalancesInTx sets every balance to zero, active or not.
	ResetAllBalancesInTx(ctx context.Context, tx pgx.Tx, now time.Time) (int64, error)

	// CountActiveAdminsForUpdate locks active admin rows and counts them.
	CountActiveAdminsForUpdate(ctx context.Context, tx pgx.Tx) (int, error)

	// UpdateMemberFlagsInTx persists IsActive and IsAdmin of member.
	UpdateMemberFlagsInTx(ctx context.Context, tx pgx.Tx, member domain.Member) error

	// DeactivateNonAdminsInTx deactivates active non-admins and zeroes their balances.
	DeactivateNonAdminsInTx(ctx context.Context, tx pgx.Tx, actorID string, now time.Time) (int64, error)
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	MemberTransactionSupport
}
