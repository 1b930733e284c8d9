package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/handlers"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config

	members      *MockMemberService
	transactions *MockTransactionService
	fiscal       *MockFiscalService
	debts        *MockDebtService
	products     *MockProductService
	templates    *MockMessageTemplateService
	auth         *MockAuthService

	admin   domain.Member
	regular domain.Member
	pending domain.Member
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTIssuer:         "club-tab-test",
		JWTExpiryDuration: time.Hour,
		IsProduction:      true,
	}

	suite.members = new(MockMemberService)
	suite.transactions = new(MockTransactionService)
	suite.fiscal = new(MockFiscalService)
	suite.debts = new(MockDebtService)
	suite.products = new(MockProductService)
	suite.templates = new(MockMessageTemplateService)
	suite.auth = new(MockAuthService)

	suite.admin = domain.Member{MemberID: uuid.NewString(), TelegramID: 1, FirstName: "Aino", IsAdmin: true, IsActive: true}
	suite.regular = domain.Member{MemberID: uuid.NewString(), TelegramID: 2, FirstName: "Eero", IsActive: true, Balance: decimal.NewFromInt(-3)}
	suite.pending = domain.Member{MemberID: uuid.NewString(), TelegramID: 3, FirstName: "Kaisa"}
	for _, m := range []domain.Member{suite.admin, suite.regular, suite.pending} {
		member := m
		suite.members.On("GetMemberByID", mock.Anything, member.MemberID).Return(&member, nil).Maybe()
	}

	apiLimiter, err := middleware.NewRateLimiter("1000-M")
	suite.Require().NoError(err)

	suite.router = gin.New()
	err = handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Member:      suite.members,
		Transaction: suite.transactions,
		Fiscal:      suite.fiscal,
		Debt:        suite.debts,
		Product:     suite.products,
		Template:    suite.templates,
		Auth:        suite.auth,
	}, apiLimiter)
	suite.Require().NoError(err)
}

// generateTestToken signs a session token the way the login flow does.
func (suite *HandlerTestSuite) generateTestToken(memberID string) string {
	token, _, err := utils.GenerateJWT(memberID, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *HandlerTestSuite) do(method, path string, as *domain.Member, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(as.MemberID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func byID(id string) any {
	return mock.MatchedBy(func(m domain.Member) bool { return m.MemberID == id })
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMetricsExposed() {
	w := suite.do(http.MethodGet, "/metrics", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMissingTokenIsUnauthorized() {
	w := suite.do(http.MethodGet, "/api/v1/me", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestUnknownTokenSubjectIsUnauthorized() {
	ghost := domain.Member{MemberID: uuid.NewString()}
	suite.members.On("GetMemberByID", mock.Anything, ghost.MemberID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/me", &ghost, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestPendingMemberCanReadSelfOnly() {
	w := suite.do(http.MethodGet, "/api/v1/me", &suite.pending, nil)
	suite.Equal(http.StatusOK, w.Code)
	var me dto.MemberResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &me))
	suite.Equal(suite.pending.MemberID, me.MemberID)
	suite.False(me.IsActive)

	w = suite.do(http.MethodGet, "/api/v1/products", &suite.pending, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apperrors.CodeForbidden, suite.errorCode(w))
	suite.products.AssertNotCalled(suite.T(), "ListProducts")
}

func (suite *HandlerTestSuite) TestLogin_PassesInitData() {
	resp := &dto.AuthResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}
	suite.auth.On("LoginWithInitData", mock.Anything, "user=%7B%7D&hash=abc").Return(resp, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/telegram", nil)
	req.Header.Set("Authorization", "tma user=%7B%7D&hash=abc")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AuthResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("tok", body.AccessToken)
	suite.auth.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestLogin_RejectedInitData() {
	suite.auth.On("LoginWithInitData", mock.Anything, "").Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/telegram", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeUnauthorized, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestCreatePurchase_Success() {
	productID := uuid.NewString()
	tx := &domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      suite.regular.MemberID,
		ProductID:     &productID,
		Type:          domain.Purchase,
		Amount:        decimal.NewFromInt(-2),
		Quantity:      2,
		Status:        domain.TransactionApproved,
	}
	suite.transactions.On("CreatePurchase", mock.Anything, byID(suite.regular.MemberID),
		dto.CreatePurchaseRequest{ProductID: productID, Quantity: 2}).Return(tx, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/purchase", &suite.regular,
		map[string]any{"productID": productID, "quantity": 2})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(tx.TransactionID, resp.TransactionID)
	suite.True(decimal.NewFromInt(-2).Equal(resp.Amount))
	suite.transactions.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreatePurchase_UnknownProduct() {
	suite.transactions.On("CreatePurchase", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrProductUnavailable).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/purchase", &suite.regular,
		map[string]any{"productID": uuid.NewString()})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestCreatePurchase_MissingProduct() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/purchase", &suite.regular, map[string]any{"quantity": 1})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidation, suite.errorCode(w))
	suite.transactions.AssertNotCalled(suite.T(), "CreatePurchase")
}

func (suite *HandlerTestSuite) TestCreatePayment_RequiresAdmin() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/payment", &suite.regular,
		map[string]any{"memberID": suite.regular.MemberID, "amount": "5"})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.transactions.AssertNotCalled(suite.T(), "CreatePayment")
}

func (suite *HandlerTestSuite) TestCreatePayment_NonPositiveAmount() {
	for _, amount := range []string{"0", "-5"} {
		w := suite.do(http.MethodPost, "/api/v1/transactions/payment", &suite.admin,
			map[string]any{"memberID": suite.regular.MemberID, "amount": amount})
		suite.Equal(http.StatusBadRequest, w.Code, "amount %s", amount)
	}
	suite.transactions.AssertNotCalled(suite.T(), "CreatePayment")
}

func (suite *HandlerTestSuite) TestCreatePaymentRequest_Success() {
	tx := &domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      suite.regular.MemberID,
		Type:          domain.Payment,
		Amount:        decimal.RequireFromString("12.50"),
		Status:        domain.TransactionPending,
	}
	suite.transactions.On("CreatePaymentRequest", mock.Anything, byID(suite.regular.MemberID),
		mock.MatchedBy(func(r dto.PaymentSelfRequest) bool { return r.Amount.Equal(decimal.RequireFromString("12.50")) })).
		Return(tx, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/payment-request", &suite.regular, map[string]any{"amount": "12.50"})
	suite.Equal(http.StatusCreated, w.Code)
	suite.transactions.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestApproveTransaction_NotPending() {
	txID := uuid.NewString()
	suite.transactions.On("ApproveTransaction", mock.Anything, byID(suite.admin.MemberID), txID).
		Return(nil, domain.ErrTransactionNotPending).Once()

	w := suite.do(http.MethodPut, "/api/v1/transactions/"+txID+"/approve", &suite.admin, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeInvalidState, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestRejectTransaction_Success() {
	txID := uuid.NewString()
	tx := &domain.Transaction{TransactionID: txID, Status: domain.TransactionRejected, Type: domain.Payment}
	suite.transactions.On("RejectTransaction", mock.Anything, byID(suite.admin.MemberID), txID).Return(tx, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/transactions/"+txID+"/reject", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.TransactionRejected, resp.Status)
}

func (suite *HandlerTestSuite) TestListMyTransactions_DefaultLimit() {
	suite.transactions.On("ListMemberTransactions", mock.Anything, byID(suite.regular.MemberID),
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool { return p.Limit == 50 && p.NextToken == nil })).
		Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/mine", &suite.regular, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.transactions.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestInternalErrorIsHidden() {
	suite.transactions.On("ListPendingTransactions", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(500, "pg: connection refused", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/pending", &suite.admin, nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *HandlerTestSuite) TestClosePeriod_EmptyBody() {
	result := &domain.CloseResult{ClosedPeriodID: uuid.NewString(), NewPeriodID: uuid.NewString(), DebtsCreated: 2, MembersReset: 4}
	suite.fiscal.On("ClosePeriod", mock.Anything, byID(suite.admin.MemberID), "").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/fiscal-periods/close", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp domain.CloseResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*result, resp)
}

func (suite *HandlerTestSuite) TestClosePeriod_AlreadyClosed() {
	periodID := uuid.NewString()
	suite.fiscal.On("ClosePeriod", mock.Anything, mock.Anything, periodID).Return(nil, domain.ErrPeriodAlreadyClosed).Once()

	w := suite.do(http.MethodPost, "/api/v1/fiscal-periods/close", &suite.admin, map[string]any{"periodID": periodID})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeInvalidState, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestClosePeriod_BadPeriodID() {
	w := suite.do(http.MethodPost, "/api/v1/fiscal-periods/close", &suite.admin, map[string]any{"periodID": "nope"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.fiscal.AssertNotCalled(suite.T(), "ClosePeriod")
}

func (suite *HandlerTestSuite) TestCurrentPeriod_NoneOpen() {
	suite.fiscal.On("GetCurrentPeriod", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/fiscal-periods/current", &suite.regular, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListPeriods_AdminOnly() {
	periods := []domain.FiscalPeriod{{PeriodID: uuid.NewString(), StartedAt: time.Now()}}
	suite.fiscal.On("ListPeriods", mock.Anything, byID(suite.admin.MemberID)).Return(periods, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/fiscal-periods", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.FiscalPeriodResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)

	w = suite.do(http.MethodGet, "/api/v1/fiscal-periods", &suite.regular, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.fiscal.AssertNumberOfCalls(suite.T(), "ListPeriods", 1)
}

func (suite *HandlerTestSuite) TestPeriodStats() {
	periodID := uuid.NewString()
	stats := &domain.PeriodStats{
		Period: domain.FiscalPeriod{PeriodID: periodID, StartedAt: time.Now().Add(-time.Hour)},
		Debts:  domain.DebtSummary{Total: decimal.NewFromInt(15), Collected: decimal.NewFromInt(5)},
	}
	suite.fiscal.On("GetPeriodStats", mock.Anything, mock.Anything, periodID).Return(stats, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/fiscal-periods/"+periodID+"/stats", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PeriodStatsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(decimal.NewFromInt(10).Equal(resp.DebtOutstanding))
	suite.True(resp.Period.IsOpen)
}

func (suite *HandlerTestSuite) TestRequestDebtPayment_NotOwner() {
	debtID := uuid.NewString()
	suite.debts.On("RequestPayment", mock.Anything, byID(suite.regular.MemberID), debtID).Return(nil, domain.ErrNotDebtOwner).Once()

	w := suite.do(http.MethodPut, "/api/v1/fiscal-debts/"+debtID+"/request-payment", &suite.regular, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestDebtAdminRoutes() {
	debtID := uuid.NewString()
	cases := []struct {
		path   string
		method string
		status domain.DebtStatus
	}{
		{"/approve", "ApprovePayment", domain.DebtPaid},
		{"/reject", "RejectPayment", domain.DebtUnpaid},
		{"/mark-paid", "MarkPaid", domain.DebtPaid},
	}
	for _, tc := range cases {
		debt := &domain.FiscalDebt{DebtID: debtID, Amount: decimal.NewFromInt(5), Status: tc.status}
		suite.debts.On(tc.method, mock.Anything, byID(suite.admin.MemberID), debtID).Return(debt, nil).Once()

		w := suite.do(http.MethodPut, "/api/v1/fiscal-debts/"+debtID+tc.path, &suite.admin, nil)
		suite.Equal(http.StatusOK, w.Code, tc.path)
		var resp dto.FiscalDebtResponse
		suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		suite.Equal(tc.status, resp.Status, tc.path)

		w = suite.do(http.MethodPut, "/api/v1/fiscal-debts/"+debtID+tc.path, &suite.regular, nil)
		suite.Equal(http.StatusForbidden, w.Code, tc.path)
	}
	suite.debts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDemote_LastAdmin() {
	suite.members.On("DemoteMember", mock.Anything, byID(suite.admin.MemberID), suite.admin.MemberID).
		Return(nil, domain.ErrLastAdmin).Once()

	w := suite.do(http.MethodPut, "/api/v1/members/"+suite.admin.MemberID+"/demote", &suite.admin, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeInvalidState, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestActivateMember() {
	activated := suite.pending
	activated.IsActive = true
	suite.members.On("ActivateMember", mock.Anything, byID(suite.admin.MemberID), suite.pending.MemberID).Return(&activated, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/members/"+suite.pending.MemberID+"/activate", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MemberResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsActive)
}

func (suite *HandlerTestSuite) TestCreateMember_Duplicate() {
	suite.members.On("CreateMember", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/members", &suite.admin, map[string]any{"telegramID": 2, "firstName": "Eero"})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeDuplicate, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestCreateMember_BlankName() {
	w := suite.do(http.MethodPost, "/api/v1/members", &suite.admin, map[string]any{"telegramID": 7, "firstName": "   "})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.members.AssertNotCalled(suite.T(), "CreateMember")
}

func (suite *HandlerTestSuite) TestListMembers_StatusFilter() {
	suite.members.On("ListMembers", mock.Anything, mock.Anything, dto.ListMembersParams{Status: "pending"}).
		Return([]domain.Member{suite.pending}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/members?status=pending", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/members?status=weird", &suite.admin, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.members.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeactivateNonAdmins() {
	suite.members.On("DeactivateNonAdmins", mock.Anything, byID(suite.admin.MemberID)).Return(int64(3), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/members/deactivate-non-admins", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DeactivateNonAdminsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(3), resp.Deactivated)
}

func (suite *HandlerTestSuite) TestProducts_IncludeInactiveFlag() {
	suite.products.On("ListProducts", mock.Anything, byID(suite.admin.MemberID), true).Return([]domain.Product{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/products?include_inactive=true", &suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.products.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeleteProduct() {
	productID := uuid.NewString()
	suite.products.On("DeactivateProduct", mock.Anything, mock.Anything, productID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/products/"+productID, &suite.admin, nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateTemplate() {
	templateID := uuid.NewString()
	text := "Hei {user}"
	tmpl := &domain.MessageTemplate{TemplateID: templateID, EventType: domain.EventUserApproved, Template: text, IsActive: true}
	suite.templates.On("UpdateTemplate", mock.Anything, mock.Anything, templateID,
		mock.MatchedBy(func(r dto.UpdateMessageTemplateRequest) bool { return r.Template != nil && *r.Template == text })).
		Return(tmpl, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/message-templates/"+templateID, &suite.admin, map[string]any{"template": text})
	suite.Equal(http.StatusOK, w.Code)
	suite.templates.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
