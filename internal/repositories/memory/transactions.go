package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// withNamesLocked fills the display-only fields the SQL listing joins in.
func (s *Store) withNamesLocked(t domain.Transaction) domain.Transaction {
	if m, ok := s.data.members[t.MemberID]; ok {
		name := m.DisplayName()
		t.MemberName = &name
	}
	if t.ProductID != nil {
		if p, ok := s.data.products[*t.ProductID]; ok {
			name := p.Name
			t.ProductName = &name
		}
	}
	return t
}

func newestFirst(a, b domain.Transaction) int {
	return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.TransactionID, a.TransactionID))
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	t = s.withNamesLocked(t)
	return &t, nil
}

func (s *Store) ListTransactionsByMember(_ context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		hasCursor bool
		cursorAt  time.Time
		cursorID  string
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		hasCursor, cursorAt, cursorID = true, at, id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Transaction{}
	for _, t := range s.data.transactions {
		if t.MemberID != memberID {
			continue
		}
		if hasCursor {
			// keep rows strictly after the cursor in newest-first order
			c := cmp.Or(t.CreatedAt.Compare(cursorAt), cmp.Compare(t.TransactionID, cursorID))
			if c >= 0 {
				continue
			}
		}
		out = append(out, s.withNamesLocked(t))
	}
	slices.SortFunc(out, newestFirst)

	var next *string
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return out, next, nil
}

func (s *Store) ListTransactionsByStatus(_ context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 200
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range s.data.transactions {
		if t.Status == status {
			out = append(out, s.withNamesLocked(t))
		}
	}
	slices.SortFunc(out, newestFirst)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SummarizeApprovedTransactions(_ context.Context, from, to time.Time) (map[domain.TransactionType]domain.TransactionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := map[domain.TransactionType]domain.TransactionSummary{}
	for _, t := range s.data.transactions {
		if t.Status != domain.TransactionApproved || t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		cur := summary[t.Type]
		cur.Count++
		cur.Total = cur.Total.Add(t.Amount)
		summary[t.Type] = cur
	}
	return summary, nil
}

func (s *Store) SaveTransactionInTx(_ context.Context, tx pgx.Tx, transaction domain.Transaction) error {
	if err := s.check(tx); err != nil {
		return err
	}
	if _, ok := s.data.members[transaction.MemberID]; !ok {
		return fmt.Errorf("failed to insert transaction: member %s: %w", transaction.MemberID, apperrors.ErrNotFound)
	}
	if _, exists := s.data.transactions[transaction.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", transaction.TransactionID, apperrors.ErrDuplicate)
	}
	transaction.MemberName, transaction.ProductName = nil, nil
	s.data.transactions[transaction.TransactionID] = transaction
	return nil
}

func (s *Store) FindTransactionByIDForUpdate(_ context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	if err := s.check(tx); err != nil {
		return nil, err
	}
	t, ok := s.data.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return &t, nil
}

func (s *Store) UpdateTransactionStatusInTx(_ context.Context, tx pgx.Tx, transaction domain.Transaction) error {
	if err := s.check(tx); err != nil {
		return err
	}
	existing, ok := s.data.transactions[transaction.TransactionID]
	if !ok || !existing.IsPending() {
		return domain.ErrTransactionNotPending
	}
	existing.Status = transaction.Status
	existing.ApprovedBy = transaction.ApprovedBy
	existing.Touch(transaction.LastUpdatedBy, transaction.LastUpdatedAt)
	s.data.transactions[existing.TransactionID] = existing
	return nil
}
