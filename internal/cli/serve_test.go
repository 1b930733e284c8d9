package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		DBDriver:                config.DriverMemory,
		Port:                    "0",
		JWTSecret:               "test-secret-key-that-is-long-enough",
		JWTIssuer:               "club-tab-test",
		JWTExpiryDuration:       time.Hour,
		TelegramInitDataMaxAge:  time.Hour,
		AutoApprovePurchases:    true,
		DevMode:                 true,
		RateLimit:               "1000-M",
		CORSOrigins:             []string{"*"},
		NotificationConcurrency: 2,
	}
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestServeStack_DevLoginPurchaseAndClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := memoryConfig()

	a, err := newApp(ctx, cfg, logger, true)
	require.NoError(t, err)
	defer a.Close(ctx)
	require.NoError(t, a.services.Seeder.Seed(ctx, nil))

	router, err := newRouter(cfg, a, logger, &utils.PosthogClientWrapper{})
	require.NoError(t, err)
	c := &client{t: t, router: router}

	assert.Equal(t, http.StatusOK, c.call(http.MethodGet, "/health", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.call(http.MethodGet, "/api/v1/me", nil, nil))

	var auth dto.AuthResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/api/v1/auth/telegram", nil, &auth))
	require.NotEmpty(t, auth.AccessToken)
	assert.True(t, auth.Member.IsAdmin)
	assert.True(t, auth.Member.IsActive)
	c.token = auth.AccessToken

	var products []dto.ProductResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/products", nil, &products))
	require.NotEmpty(t, products)

	var purchase dto.TransactionResponse
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/api/v1/transactions/purchase",
		map[string]any{"productID": products[0].ProductID, "quantity": 2}, &purchase))
	assert.Equal(t, domain.TransactionApproved, purchase.Status)
	assert.True(t, products[0].Price.Mul(decimal.NewFromInt(-2)).Equal(purchase.Amount))

	var me dto.MemberResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/me", nil, &me))
	assert.True(t, purchase.Amount.Equal(me.Balance))

	var current dto.FiscalPeriodResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/fiscal-periods/current", nil, &current))

	var result domain.CloseResult
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/api/v1/fiscal-periods/close",
		map[string]any{"periodID": current.PeriodID}, &result))
	assert.Equal(t, current.PeriodID, result.ClosedPeriodID)
	assert.Equal(t, 1, result.DebtsCreated)

	// A retried close of the same period must not run twice.
	assert.Equal(t, http.StatusConflict, c.call(http.MethodPost, "/api/v1/fiscal-periods/close",
		map[string]any{"periodID": current.PeriodID}, nil))

	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/me", nil, &me))
	assert.True(t, me.Balance.IsZero())

	var debts []dto.FiscalDebtResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/fiscal-debts/mine", nil, &debts))
	require.Len(t, debts, 1)
	assert.True(t, purchase.Amount.Abs().Equal(debts[0].Amount))

	var paid dto.FiscalDebtResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodPut, "/api/v1/fiscal-debts/"+debts[0].DebtID+"/mark-paid", nil, &paid))
	assert.Equal(t, domain.DebtPaid, paid.Status)
}

func TestCorsMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware([]string{"https://club.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://club.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://club.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
