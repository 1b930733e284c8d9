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
)

func (s *Store) openPeriodLocked() (*domain.FiscalPeriod, bool) {
	for _, p := range s.data.periods {
		if p.IsOpen() {
			return &p, true
		}
	}
	return nil, false
}

func (s *Store) debtWithNameLocked(d domain.FiscalDebt) domain.FiscalDebt {
	if m, ok := s.data.members[d.MemberID]; ok {
		name := m.DisplayName()
		d.MemberName = &name
	}
	return d
}

func (s *Store) filterDebtsLocked(keep func(domain.FiscalDebt) bool) []domain.FiscalDebt {
	out := []domain.FiscalDebt{}
	for _, d := range s.data.debts {
		if keep(d) {
			out = append(out, s.debtWithNameLocked(d))
		}
	}
	return out
}

func newestDebtFirst(a, b domain.FiscalDebt) int {
	return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.DebtID, a.DebtID))
}

func (s *Store) FindOpenPeriod(_ context.Context) (*domain.FiscalPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.openPeriodLocked()
	if !ok {
		return nil, fmt.Errorf("open fiscal period: %w", apperrors.ErrNotFound)
	}
	return p, nil
}

func (s *Store) FindPeriodByID(_ context.Context, periodID string) (*domain.FiscalPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.periods[periodID]
	if !ok {
		return nil, fmt.Errorf("fiscal period %s: %w", periodID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) ListPeriods(_ context.Context) ([]domain.FiscalPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FiscalPeriod, 0, len(s.data.periods))
	for _, p := range s.data.periods {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.FiscalPeriod) int {
		return cmp.Or(b.StartedAt.Compare(a.StartedAt), cmp.Compare(b.PeriodID, a.PeriodID))
	})
	return out, nil
}

func (s *Store) FindDebtByID(_ context.Context, debtID string) (*domain.FiscalDebt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data.debts[debtID]
	if !ok {
		return nil, fmt.Errorf("fiscal debt %s: %w", debtID, apperrors.ErrNotFound)
	}
	d = s.debtWithNameLocked(d)
	return &d, nil
}

func (s *Store) ListDebtsByPeriod(_ context.Context, periodID string) ([]domain.FiscalDebt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filterDebtsLocked(func(d domain.FiscalDebt) bool { return d.PeriodID == periodID })
	slices.SortFunc(out, func(a, b domain.FiscalDebt) int {
		return cmp.Or(b.Amount.Cmp(a.Amount), cmp.Compare(a.DebtID, b.DebtID))
	})
	return out, nil
}

func (s *Store) ListDebtsByStatus(_ context.Context, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filterDebtsLocked(func(d domain.FiscalDebt) bool { return slices.Contains(statuses, d.Status) })
	slices.SortFunc(out, newestDebtFirst)
	return out, nil
}

func (s *Store) ListDebtsByMember(_ context.Context, memberID string, statuses ...domain.DebtStatus) ([]domain.FiscalDebt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filterDebtsLocked(func(d domain.FiscalDebt) bool {
		return d.MemberID == memberID && slices.Contains(statuses, d.Status)
	})
	slices.SortFunc(out, newestDebtFirst)
	return out, nil
}

func (s *Store) SummarizeDebts(_ context.Context, periodID string) (domain.DebtSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary domain.DebtSummary
	for _, d := range s.data.debts {
		if d.PeriodID != periodID {
			continue
		}
		summary.Total = summary.Total.Add(d.Amount)
		if d.Status == domain.DebtPaid {
			summary.Collected = summary.Collected.Add(d.Amount)
		}
	}
	return summary, nil
}

func (s *Store) FindOpenPeriodForUpdate(_ context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error) {
	if err := s.check(tx); err != nil {
		return nil, err
	}
	p, ok := s.openPeriodLocked()
	if !ok {
		return nil, domain.ErrNoOpenPeriod
	}
	return p, nil
}

func (s *Store) ClosePeriodInTx(_ context.Context, tx pgx.Tx, periodID string, endedAt time.Time) error {
	if err := s.check(tx); err != nil {
		return err
	}
	p, ok := s.data.periods[periodID]
	if !ok || !p.IsOpen() {
		return domain.ErrPeriodAlreadyClosed
	}
	p.EndedAt = &endedAt
	s.data.periods[periodID] = p
	return nil
}

func (s *Store) SavePeriodInTx(_ context.Context, tx pgx.Tx, period domain.FiscalPeriod) error {
	if err := s.check(tx); err != nil {
		return err
	}
	if _, open := s.openPeriodLocked(); open && period.IsOpen() {
		return fmt.Errorf("%w: another fiscal period is already open", apperrors.ErrInvalidState)
	}
	s.data.periods[period.PeriodID] = period
	return nil
}

func (s *Store) SaveDebtsInTx(_ context.Context, tx pgx.Tx, debts []domain.FiscalDebt) error {
	if err := s.check(tx); err != nil {
		return err
	}
	for _, d := range debts {
		if _, ok := s.data.periods[d.PeriodID]; !ok {
			return fmt.Errorf("failed to insert fiscal debt: period %s: %w", d.PeriodID, apperrors.ErrNotFound)
		}
		d.MemberName = nil
		s.data.debts[d.DebtID] = d
	}
	return nil
}

func (s *Store) FindDebtByIDForUpdate(_ context.Context, tx pgx.Tx, debtID string) (*domain.FiscalDebt, error) {
	if err := s.check(tx); err != nil {
		return nil, err
	}
	d, ok := s.data.debts[debtID]
	if !ok {
		return nil, fmt.Errorf("fiscal debt %s: %w", debtID, apperrors.ErrNotFound)
	}
	return &d, nil
}

func (s *Store) UpdateDebtStatusInTx(_ context.Context, tx pgx.Tx, debt domain.FiscalDebt) error {
	if err := s.check(tx); err != nil {
		return err
	}
	existing, ok := s.data.debts[debt.DebtID]
	if !ok {
		return fmt.Errorf("fiscal debt %s: %w", debt.DebtID, apperrors.ErrNotFound)
	}
	existing.Status = debt.Status
	existing.PaidAt = debt.PaidAt
	s.data.debts[debt.DebtID] = existing
	return nil
}
