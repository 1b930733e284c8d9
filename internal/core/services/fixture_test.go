package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/SscSPs/club_tab_app/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// --- Recording collaborators ---

type sentNotification struct {
	Event    domain.EventType
	MemberID string
	Vars     map[string]string
}

type recordingNotifier struct {
	mu      sync.Mutex
	sent    []sentNotification
	panicOn domain.EventType
}

func (n *recordingNotifier) Notify(_ context.Context, eventType domain.EventType, member domain.Member, vars map[string]string) bool {
	if n.panicOn != "" && n.panicOn == eventType {
		panic("notifier failed for " + string(eventType))
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Event: eventType, MemberID: member.MemberID, Vars: vars})
	return true
}

func (n *recordingNotifier) NotifyMany(ctx context.Context, eventType domain.EventType, targets []domain.NotificationTarget) int {
	for _, t := range targets {
		n.Notify(ctx, eventType, t.Member, t.Vars)
	}
	return len(targets)
}

func (n *recordingNotifier) events() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []domain.LedgerEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.LedgerEventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

// --- Ledger fixture on the in-memory store ---

var fixtureNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type ledgerFixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier
	events   *recordingPublisher
	lastTgID int64

	clockMu sync.Mutex
	now     time.Time

	members      portssvc.MemberSvcFacade
	transactions portssvc.TransactionSvcFacade
	fiscal       portssvc.FiscalSvcFacade
	debts        portssvc.DebtSvcFacade
	products     portssvc.ProductSvcFacade
}

func newLedgerFixture(t *testing.T, autoApprove bool) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		t:        t,
		ctx:      context.Background(),
		store:    memory.NewStore(),
		notifier: &recordingNotifier{},
		events:   &recordingPublisher{},
		now:      fixtureNow,
	}
	repos := memory.NewRepositoryProvider(f.store)
	opts := []services.ServiceOption{
		services.WithNotifier(f.notifier),
		services.WithEventPublisher(f.events),
		services.WithBackgroundRunner(services.InlineRunner{}),
		services.WithClock(f.clock),
	}
	f.members = services.NewMemberService(repos.TxManager, repos.MemberRepo, opts...)
	f.transactions = services.NewTransactionService(repos.TxManager, repos.TxRepo, repos.MemberRepo, repos.ProductRepo, autoApprove, opts...)
	f.fiscal = services.NewFiscalService(repos.TxManager, repos.FiscalRepo, repos.MemberRepo, repos.TxRepo, opts...)
	f.debts = services.NewDebtService(repos.TxManager, repos.FiscalRepo, repos.MemberRepo, opts...)
	f.products = services.NewProductService(repos.ProductRepo, opts...)

	_, err := f.fiscal.EnsureOpenPeriod(f.ctx)
	require.NoError(t, err)
	return f
}

func (f *ledgerFixture) clock() time.Time {
	f.clockMu.Lock()
	defer f.clockMu.Unlock()
	return f.now
}

// advance moves the service clock forward and returns the new time.
func (f *ledgerFixture) advance(d time.Duration) time.Time {
	f.clockMu.Lock()
	defer f.clockMu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

func (f *ledgerFixture) addMember(name string, admin, active bool, balance string) domain.Member {
	f.t.Helper()
	f.lastTgID++
	m := domain.Member{
		MemberID:    uuid.NewString(),
		TelegramID:  1000 + f.lastTgID,
		FirstName:   name,
		IsAdmin:     admin,
		IsActive:    active,
		Balance:     decimal.RequireFromString(balance),
		AuditFields: domain.NewAuditFields(domain.SystemActor, fixtureNow),
	}
	require.NoError(f.t, f.store.SaveMember(f.ctx, m))
	return m
}

func (f *ledgerFixture) addProduct(name, price string) domain.Product {
	f.t.Helper()
	p := domain.Product{
		ProductID: uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
		CreatedAt: fixtureNow,
	}
	require.NoError(f.t, f.store.SaveProduct(f.ctx, p))
	return p
}

func (f *ledgerFixture) balance(memberID string) decimal.Decimal {
	f.t.Helper()
	m, err := f.store.FindMemberByID(f.ctx, memberID)
	require.NoError(f.t, err)
	return m.Balance
}

func (f *ledgerFixture) reload(memberID string) domain.Member {
	f.t.Helper()
	m, err := f.store.FindMemberByID(f.ctx, memberID)
	require.NoError(f.t, err)
	return *m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
