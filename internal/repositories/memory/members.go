package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) memberLocked(memberID string) (*domain.Member, error) {
	m, ok := s.data.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
	}
	return &m, nil
}

func sortMembersByName(ms []domain.Member) {
	slices.SortFunc(ms, func(a, b domain.Member) int {
		return cmp.Or(cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.MemberID, b.MemberID))
	})
}

func (s *Store) FindMemberByID(_ context.Context, memberID string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberLocked(memberID)
}

func (s *Store) FindMemberByTelegramID(_ context.Context, telegramID int64) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.data.byTelegram[telegramID]
	if !ok {
		return nil, fmt.Errorf("member with telegram id %d: %w", telegramID, apperrors.ErrNotFound)
	}
	return s.memberLocked(id)
}

func (s *Store) ListMembers(_ context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Member{}
	for _, m := range s.data.members {
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		if filter.PendingOnly && m.IsActive {
			continue
		}
		out = append(out, m)
	}
	sortMembersByName(out)
	return out, nil
}

func (s *Store) ListLeaderboard(_ context.Context, limit int) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := []domain.Member{}
	for _, m := range s.data.members {
		if m.IsActive {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b domain.Member) int {
		return cmp.Or(a.Balance.Cmp(b.Balance), cmp.Compare(a.FirstName, b.FirstName))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SaveMember(_ context.Context, member domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.byTelegram[member.TelegramID]; exists {
		return fmt.Errorf("member with telegram id %d: %w", member.TelegramID, apperrors.ErrDuplicate)
	}
	if _, exists := s.data.members[member.MemberID]; exists {
		return fmt.Errorf("member %s: %w", member.MemberID, apperrors.ErrDuplicate)
	}
	s.data.members[member.MemberID] = member
	s.data.byTelegram[member.TelegramID] = member.MemberID
	return nil
}

func (s *Store) UpdateMemberProfile(_ context.Context, member domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.memberLocked(member.MemberID)
	if err != nil {
		return err
	}
	existing.FirstName = member.FirstName
	existing.LastName = member.LastName
	existing.Username = member.Username
	existing.Touch(member.LastUpdatedBy, member.LastUpdatedAt)
	s.data.members[existing.MemberID] = *existing
	return nil
}

func (s *Store) FindMemberByIDForUpdate(_ context.Context, tx pgx.Tx, memberID string) (*domain.Member, error) {
	if err := s.check(tx); err != nil {
		return nil, err
	}
	return s.memberLocked(memberID)
}

func (s *Store) AdjustMemberBalanceInTx(_ context.Context, tx pgx.Tx, memberID string, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if err := s.check(tx); err != nil {
		return decimal.Zero, err
	}
	m, ok := s.data.members[memberID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: member %s not found during balance update", apperrors.ErrNotFound, memberID)
	}
	m.Balance = m.Balance.Add(delta)
	m.LastUpdatedAt = now
	s.data.members[memberID] = m
	return m.Balance, nil
}

// LockMembersInTx is a no-op: the transaction already holds the store lock.
func (s *Store) LockMembersInTx(_ context.Context, tx pgx.Tx) error {
	return s.check(tx)
}

func (s *Store) ListActiveDebtorsInTx(_ context.Context, tx pgx.Tx) ([]domain.Member, error) {
	if err := s.check(tx); err != nil {
		return nil, err
	}
	out := []domain.Member{}
	for _, m := range s.data.members {
		if m.IsActive && m.Balance.IsNegative() {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b domain.Member) int {
		return cmp.Or(a.Balance.Cmp(b.Balance), cmp.Compare(a.MemberID, b.MemberID))
	})
	return out, nil
}

func (s *Store) ResetAllBalancesInTx(_ context.Context, tx pgx.Tx, now time.Time) (int64, error) {
	if err := s.check(tx); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range s.data.members {
		if m.Balance.IsZero() {
			continue
		}
		m.Balance = decimal.Zero
		m.LastUpdatedAt = now
		s.data.members[id] = m
		n++
	}
	return n, nil
}

func (s *Store) CountActiveAdminsForUpdate(_ context.Context, tx pgx.Tx) (int, error) {
	if err := s.check(tx); err != nil {
		return 0, err
	}
	count := 0
	for _, m := range s.data.members {
		if m.IsAdmin && m.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) UpdateMemberFlagsInTx(_ context.Context, tx pgx.Tx, member domain.Member) error {
	if err := s.check(tx); err != nil {
		return err
	}
	existing, err := s.memberLocked(member.MemberID)
	if err != nil {
		return err
	}
	existing.IsActive = member.IsActive
	existing.IsAdmin = member.IsAdmin
	existing.Touch(member.LastUpdatedBy, member.LastUpdatedAt)
	s.data.members[existing.MemberID] = *existing
	return nil
}

func (s *Store) DeactivateNonAdminsInTx(_ context.Context, tx pgx.Tx, actorID string, now time.Time) (int64, error) {
	if err := s.check(tx); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range s.data.members {
		if m.IsAdmin || !m.IsActive {
			continue
		}
		m.IsActive = false
		m.Balance = decimal.Zero
		m.Touch(actorID, now)
		s.data.members[id] = m
		n++
	}
	return n, nil
}
