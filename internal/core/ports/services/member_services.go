package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/dto"
)

// MemberReaderSvc defines read operations for members
type MemberReaderSvc interface {
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, admin domain.Member, params dto.ListMembersParams) ([]domain.Member, error)
	Leaderboard(ctx context.Context, requester domain.Member, limit int) ([]domain.Member, error)
}

// MemberAdminSvc defines admin operations on members
type MemberAdminSvc interface {
	CreateMember(ctx context.Context, admin domain.Member, req dto.CreateMemberRequest) (*domain.Member, error)
	ActivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error)
	DeactivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error)
	PromoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error)
	DemoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error)

	// DeactivateNonAdmins deactivates every active non-admin and zeroes their balances.
	DeactivateNonAdmins(ctx context.Context, admin domain.Member) (int64, error)
}

// MemberIdentitySvc links verified identities to members
type MemberIdentitySvc interface {
	// ResolveIdentity returns the member for a verified identity, creating an
	// inactive member on first contact and refreshing profile names otherwise.
	ResolveIdentity(ctx context.Context, identity domain.TelegramIdentity) (*domain.Member, error)

	// BootstrapAdmins makes sure each telegram id belongs to an active admin.
	BootstrapAdmins(ctx context.Context, telegramIDs []int64) error
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberAdminSvc
	MemberIdentitySvc
}
