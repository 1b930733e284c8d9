package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const bootstrapAdminName = "Admin"

type memberService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new MemberService.
func NewMemberService(txManager portsrepo.TransactionManager, memberRepo portsrepo.MemberRepositoryFacade, opts ...ServiceOption) portssvc.MemberSvcFacade {
	return &memberService{
		BaseService: newBaseService(opts...),
		txManager:   txManager,
		memberRepo:  memberRepo,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

func (s *memberService) ListMembers(ctx context.Context, admin domain.Member, params dto.ListMembersParams) ([]domain.Member, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListMembers(ctx, params.Filter())
	if err != nil {
		s.LogError(ctx, err, "Failed to list members")
		return nil, err
	}
	return members, nil
}

func (s *memberService) Leaderboard(ctx context.Context, requester domain.Member, limit int) ([]domain.Member, error) {
	if err := requester.EnsureActive(); err != nil {
		return nil, err
	}
	return s.memberRepo.ListLeaderboard(ctx, limit)
}

// CreateMember adds an active member on an admin's behalf.
func (s *memberService) CreateMember(ctx context.Context, admin domain.Member, req dto.CreateMemberRequest) (*domain.Member, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	now := s.Now()
	addedBy := admin.MemberID
	member := domain.Member{
		MemberID:    uuid.NewString(),
		TelegramID:  req.TelegramID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		IsActive:    true,
		Balance:     decimal.Zero,
		AddedBy:     &addedBy,
		AuditFields: domain.NewAuditFields(admin.MemberID, now),
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to create member", slog.Int64("telegram_id", req.TelegramID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Member created",
		slog.String("member_id", member.MemberID),
		slog.String("added_by", admin.MemberID))
	return &member, nil
}

func (s *memberService) ActivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return s.changeFlags(ctx, admin, memberID, domain.EventUserApproved, func(m *domain.Member) error {
		if m.IsActive {
			return domain.ErrMemberAlreadyOn
		}
		m.IsActive = true
		return nil
	})
}

// DeactivateMember keeps the balance; only the bulk wipe zeroes it.
func (s *memberService) DeactivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return s.changeFlags(ctx, admin, memberID, domain.EventUserDeactivated, func(m *domain.Member) error {
		if !m.IsActive {
			return domain.ErrMemberAlreadyOff
		}
		m.IsActive = false
		return nil
	})
}

func (s *memberService) PromoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return s.changeFlags(ctx, admin, memberID, domain.EventUserPromoted, func(m *domain.Member) error {
		if m.IsAdmin {
			return domain.ErrMemberAlreadyAdmin
		}
		if err := m.EnsureActive(); err != nil {
			return fmt.Errorf("%w: activate the member first", apperrors.ErrInvalidState)
		}
		m.IsAdmin = true
		return nil
	})
}

func (s *memberService) DemoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return s.changeFlags(ctx, admin, memberID, domain.EventUserDemoted, func(m *domain.Member) error {
		if !m.IsAdmin {
			return domain.ErrMemberNotAdmin
		}
		m.IsAdmin = false
		return nil
	})
}

// changeFlags locks the target, applies change and refuses to leave the club
// without an active admin.
func (s *memberService) changeFlags(ctx context.Context, admin domain.Member, memberID string, event domain.EventType, change func(m *domain.Member) error) (*domain.Member, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	var target *domain.Member
	now := s.Now()
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var err error
		target, err = s.memberRepo.FindMemberByIDForUpdate(ctx, tx, memberID)
		if err != nil {
			return err
		}
		wasActiveAdmin := target.IsAdmin && target.IsActive
		if err := change(target); err != nil {
			return err
		}
		if wasActiveAdmin && !(target.IsAdmin && target.IsActive) {
			admins, err := s.memberRepo.CountActiveAdminsForUpdate(ctx, tx)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return domain.ErrLastAdmin
			}
		}
		target.Touch(admin.MemberID, now)
		return s.memberRepo.UpdateMemberFlagsInTx(ctx, tx, *target)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change member flags",
			slog.String("member_id", memberID),
			slog.String("event", string(event)),
			slog.String("admin_id", admin.MemberID))
		return nil, err
	}

	s.LogInfo(ctx, "Member updated",
		slog.String("member_id", target.MemberID),
		slog.String("event", string(event)),
		slog.Bool("is_active", target.IsActive),
		slog.Bool("is_admin", target.IsAdmin),
		slog.String("admin_id", admin.MemberID))
	s.notifyAfterCommit(ctx, event, *target, map[string]string{"user": target.FirstName})
	return target, nil
}

func (s *memberService) DeactivateNonAdmins(ctx context.Context, admin domain.Member) (int64, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return 0, err
	}

	var n int64
	now := s.Now()
	err := s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		if err := s.memberRepo.LockMembersInTx(ctx, tx); err != nil {
			return err
		}
		var err error
		n, err = s.memberRepo.DeactivateNonAdminsInTx(ctx, tx, admin.MemberID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate non-admin members", slog.String("admin_id", admin.MemberID))
		return 0, err
	}

	s.LogInfo(ctx, "Non-admin members deactivated",
		slog.Int64("count", n),
		slog.String("admin_id", admin.MemberID))
	s.publishAfterCommit(ctx, s.ledgerEvent(domain.LedgerMembersWiped, admin.MemberID, "", admin.MemberID, decimal.NewFromInt(n), "deactivated"))
	return n, nil
}

// ResolveIdentity returns the member behind a verified identity. Unknown users are
// created inactive and wait for an admin to approve them.
func (s *memberService) ResolveIdentity(ctx context.Context, identity domain.TelegramIdentity) (*domain.Member, error) {
	existing, err := s.memberRepo.FindMemberByTelegramID(ctx, identity.ID)
	if err == nil {
		if !existing.ProfileDiffers(identity) {
			return existing, nil
		}
		existing.FirstName = identity.FirstName
		existing.LastName = identity.LastName
		existing.Username = identity.Username
		existing.Touch(existing.MemberID, s.Now())
		if err := s.memberRepo.UpdateMemberProfile(ctx, *existing); err != nil {
			s.LogError(ctx, err, "Failed to refresh member profile", slog.String("member_id", existing.MemberID))
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	member := domain.Member{
		MemberID:   uuid.NewString(),
		TelegramID: identity.ID,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Username:   identity.Username,
		Balance:    decimal.Zero,
	}
	member.AuditFields = domain.NewAuditFields(member.MemberID, now)
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		// A concurrent login for the same user created the row first.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.memberRepo.FindMemberByTelegramID(ctx, identity.ID)
		}
		s.LogError(ctx, err, "Failed to register member", slog.Int64("telegram_id", identity.ID))
		return nil, err
	}

	s.LogInfo(ctx, "New member registered, awaiting approval",
		slog.String("member_id", member.MemberID),
		slog.Int64("telegram_id", identity.ID))
	return &member, nil
}

func (s *memberService) BootstrapAdmins(ctx context.Context, telegramIDs []int64) error {
	for _, tgID := range telegramIDs {
		if err := s.bootstrapAdmin(ctx, tgID); err != nil {
			return fmt.Errorf("bootstrap admin %d: %w", tgID, err)
		}
	}
	return nil
}

func (s *memberService) bootstrapAdmin(ctx context.Context, telegramID int64) error {
	now := s.Now()
	existing, err := s.memberRepo.FindMemberByTelegramID(ctx, telegramID)
	if errors.Is(err, apperrors.ErrNotFound) {
		member := domain.Member{
			MemberID:    uuid.NewString(),
			TelegramID:  telegramID,
			FirstName:   bootstrapAdminName,
			IsAdmin:     true,
			IsActive:    true,
			Balance:     decimal.Zero,
			AuditFields: domain.NewAuditFields(domain.SystemActor, now),
		}
		if err := s.memberRepo.SaveMember(ctx, member); err != nil {
			return err
		}
		s.LogInfo(ctx, "Bootstrapped admin", slog.Int64("telegram_id", telegramID), slog.String("member_id", member.MemberID))
		return nil
	}
	if err != nil {
		return err
	}
	if existing.IsAdmin && existing.IsActive {
		return nil
	}

	err = s.withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		m, err := s.memberRepo.FindMemberByIDForUpdate(ctx, tx, existing.MemberID)
		if err != nil {
			return err
		}
		m.IsAdmin = true
		m.IsActive = true
		m.Touch(domain.SystemActor, now)
		return s.memberRepo.UpdateMemberFlagsInTx(ctx, tx, *m)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Promoted configured admin", slog.Int64("telegram_id", telegramID), slog.String("member_id", existing.MemberID))
	return nil
}
