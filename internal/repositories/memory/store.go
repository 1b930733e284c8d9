// Package memory is an in-process implementation of every repository port.
// It backs DB_DRIVER=memory and the service property tests.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction does not belong to this store or has ended")

type state struct {
	members      map[string]domain.Member
	byTelegram   map[int64]string
	transactions map[string]domain.Transaction
	periods      map[string]domain.FiscalPeriod
	debts        map[string]domain.FiscalDebt
	products     map[string]domain.Product
	templates    map[string]domain.MessageTemplate
}

func newState() state {
	return state{
		members:      map[string]domain.Member{},
		byTelegram:   map[int64]string{},
		transactions: map[string]domain.Transaction{},
		periods:      map[string]domain.FiscalPeriod{},
		debts:        map[string]domain.FiscalDebt{},
		products:     map[string]domain.Product{},
		templates:    map[string]domain.MessageTemplate{},
	}
}

// clone copies the maps. Entities are values and are replaced, never mutated in place.
func (s state) clone() state {
	return state{
		members:      maps.Clone(s.members),
		byTelegram:   maps.Clone(s.byTelegram),
		transactions: maps.Clone(s.transactions),
		periods:      maps.Clone(s.periods),
		debts:        maps.Clone(s.debts),
		products:     maps.Clone(s.products),
		templates:    maps.Clone(s.templates),
	}
}

// Store serializes writers: a transaction holds the store lock from Begin until
// Commit or Rollback, and Rollback restores the snapshot taken at Begin.
// Calling a non-transactional method while holding a transaction deadlocks.
type Store struct {
	mu   sync.Mutex
	data state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

var (
	_ portsrepo.TransactionManager              = (*Store)(nil)
	_ portsrepo.MemberRepositoryFacade          = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade     = (*Store)(nil)
	_ portsrepo.FiscalRepositoryFacade          = (*Store)(nil)
	_ portsrepo.ProductRepositoryFacade         = (*Store)(nil)
	_ portsrepo.MessageTemplateRepositoryFacade = (*Store)(nil)
)

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    s,
		MemberRepo:   s,
		TxRepo:       s,
		FiscalRepo:   s,
		ProductRepo:  s,
		TemplateRepo: s,
	}
}

// memTx satisfies pgx.Tx for the service layer. Only Commit and Rollback are usable;
// the embedded interface is nil, so SQL methods panic.
type memTx struct {
	pgx.Tx
	store    *Store
	snapshot state
	done     bool
}

func (t *memTx) Commit(ctx context.Context) error {
	return t.store.Commit(ctx, t)
}

func (t *memTx) Rollback(ctx context.Context) error {
	return t.store.Rollback(ctx, t)
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	s.mu.Lock()
	return &memTx{store: s, snapshot: s.data.clone()}, nil
}

func (s *Store) Commit(_ context.Context, tx pgx.Tx) error {
	t, ok := tx.(*memTx)
	if !ok || t.store != s || t.done {
		return apperrors.NewAppError(500, "failed to commit transaction", pgx.ErrTxClosed)
	}
	t.done = true
	t.snapshot = state{}
	s.mu.Unlock()
	return nil
}

// Rollback restores the snapshot. Rolling back a finished transaction is a no-op.
func (s *Store) Rollback(_ context.Context, tx pgx.Tx) error {
	t, ok := tx.(*memTx)
	if !ok || t.store != s {
		return apperrors.NewAppError(500, "failed to rollback transaction", errForeignTx)
	}
	if t.done {
		return nil
	}
	t.done = true
	s.data = t.snapshot
	t.snapshot = state{}
	s.mu.Unlock()
	return nil
}

// check verifies tx is a live transaction of s; the caller then owns s.data.
func (s *Store) check(tx pgx.Tx) error {
	t, ok := tx.(*memTx)
	if !ok || t.store != s || t.done {
		return errForeignTx
	}
	return nil
}
