package handlers_test

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock MemberService ---
type MockMemberService struct {
	mock.Mock
}

func memberOrNil(args mock.Arguments) (*domain.Member, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func membersOrNil(args mock.Arguments) ([]domain.Member, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, memberID))
}
func (m *MockMemberService) ListMembers(ctx context.Context, admin domain.Member, params dto.ListMembersParams) ([]domain.Member, error) {
	return membersOrNil(m.Called(ctx, admin, params))
}
func (m *MockMemberService) Leaderboard(ctx context.Context, requester domain.Member, limit int) ([]domain.Member, error) {
	return membersOrNil(m.Called(ctx, requester, limit))
}
func (m *MockMemberService) CreateMember(ctx context.Context, admin domain.Member, req dto.CreateMemberRequest) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, admin, req))
}
func (m *MockMemberService) ActivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, admin, memberID))
}
func (m *MockMemberService) DeactivateMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, admin, memberID))
}
func (m *MockMemberService) PromoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, admin, memberID))
}
func (m *MockMemberService) DemoteMember(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, admin, memberID))
}
func (m *MockMemberService) DeactivateNonAdmins(ctx context.Context, admin domain.Member) (int64, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockMemberService) ResolveIdentity(ctx context.Context, identity domain.TelegramIdentity) (*domain.Member, error) {
	return memberOrNil(m.Called(ctx, identity))
}
func (m *MockMemberService) BootstrapAdmins(ctx context.Context, telegramIDs []int64) error {
	return m.Called(ctx, telegramIDs).Error(0)
}

var _ portssvc.MemberSvcFacade = (*MockMemberService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func txOrNil(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) CreatePurchase(ctx context.Context, member domain.Member, req dto.CreatePurchaseRequest) (*domain.Transaction, error) {
	return txOrNil(m.Called(ctx, member, req))
}
func (m *MockTransactionService) CreatePayment(ctx context.Context, admin domain.Member, req dto.CreatePaymentRequest) (*domain.Transaction, error) {
	return txOrNil(m.Called(ctx, admin, req))
}
func (m *MockTransactionService) CreatePaymentRequest(ctx context.Context, member domain.Member, req dto.PaymentSelfRequest) (*domain.Transaction, error) {
	return txOrNil(m.Called(ctx, member, req))
}
func (m *MockTransactionService) ApproveTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error) {
	return txOrNil(m.Called(ctx, admin, transactionID))
}
func (m *MockTransactionService) RejectTransaction(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error) {
	return txOrNil(m.Called(ctx, admin, transactionID))
}
func (m *MockTransactionService) ListMemberTransactions(ctx context.Context, member domain.Member, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, member, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) ListPendingTransactions(ctx context.Context, admin domain.Member) ([]domain.Transaction, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock FiscalService ---
type MockFiscalService struct {
	mock.Mock
}

func (m *MockFiscalService) ClosePeriod(ctx context.Context, admin domain.Member, periodID string) (*domain.CloseResult, error) {
	args := m.Called(ctx, admin, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloseResult), args.Error(1)
}
func (m *MockFiscalService) EnsureOpenPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}
func (m *MockFiscalService) GetCurrentPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}
func (m *MockFiscalService) ListPeriods(ctx context.Context, admin domain.Member) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}
func (m *MockFiscalService) GetPeriodStats(ctx context.Context, admin domain.Member, periodID string) (*domain.PeriodStats, error) {
	args := m.Called(ctx, admin, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodStats), args.Error(1)
}
func (m *MockFiscalService) ListPeriodDebts(ctx context.Context, admin domain.Member, periodID string) ([]domain.FiscalDebt, error) {
	args := m.Called(ctx, admin, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalDebt), args.Error(1)
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

// --- Mock DebtService ---
type MockDebtService struct {
	mock.Mock
}

func debtOrNil(args mock.Arguments) (*domain.FiscalDebt, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalDebt), args.Error(1)
}

func (m *MockDebtService) RequestPayment(ctx context.Context, member domain.Member, debtID string) (*domain.FiscalDebt, error) {
	return debtOrNil(m.Called(ctx, member, debtID))
}
func (m *MockDebtService) ApprovePayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	return debtOrNil(m.Called(ctx, admin, debtID))
}
func (m *MockDebtService) RejectPayment(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	return debtOrNil(m.Called(ctx, admin, debtID))
}
func (m *MockDebtService) MarkPaid(ctx context.Context, admin domain.Member, debtID string) (*domain.FiscalDebt, error) {
	return debtOrNil(m.Called(ctx, admin, debtID))
}
func (m *MockDebtService) ListMyDebts(ctx context.Context, member domain.Member) ([]domain.FiscalDebt, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalDebt), args.Error(1)
}
func (m *MockDebtService) ListPendingDebts(ctx context.Context, admin domain.Member) ([]domain.FiscalDebt, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalDebt), args.Error(1)
}

var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

// --- Mock ProductService ---
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, requester domain.Member, includeInactive bool) ([]domain.Product, error) {
	args := m.Called(ctx, requester, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockProductService) CreateProduct(ctx context.Context, admin domain.Member, req dto.CreateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) UpdateProduct(ctx context.Context, admin domain.Member, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	args := m.Called(ctx, admin, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) DeactivateProduct(ctx context.Context, admin domain.Member, productID string) error {
	return m.Called(ctx, admin, productID).Error(0)
}

var _ portssvc.ProductSvcFacade = (*MockProductService)(nil)

// --- Mock MessageTemplateService ---
type MockMessageTemplateService struct {
	mock.Mock
}

func (m *MockMessageTemplateService) ListTemplates(ctx context.Context, admin domain.Member) ([]domain.MessageTemplate, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MessageTemplate), args.Error(1)
}
func (m *MockMessageTemplateService) UpdateTemplate(ctx context.Context, admin domain.Member, templateID string, req dto.UpdateMessageTemplateRequest) (*domain.MessageTemplate, error) {
	args := m.Called(ctx, admin, templateID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageTemplate), args.Error(1)
}

var _ portssvc.MessageTemplateSvcFacade = (*MockMessageTemplateService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginWithInitData(ctx context.Context, initData string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, initData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)
