package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/repositories/memory"
	"github.com/SscSPs/club_tab_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(initData string) (*domain.TelegramIdentity, error) {
	args := m.Called(initData)
	if id := args.Get(0); id != nil {
		return id.(*domain.TelegramIdentity), args.Error(1)
	}
	return nil, args.Error(1)
}

func newAuthFixture(devMode bool) (*mockVerifier, *memory.Store, *config.Config, portssvc.AuthSvc) {
	cfg := &config.Config{
		JWTSecret:         "auth-test-secret",
		JWTIssuer:         "club-tab-test",
		JWTExpiryDuration: time.Hour,
		DevMode:           devMode,
	}
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	verifier := &mockVerifier{}
	members := services.NewMemberService(repos.TxManager, repos.MemberRepo)
	return verifier, store, cfg, services.NewAuthService(cfg, verifier, members)
}

func TestLogin_NewUserGetsTokenWhilePending(t *testing.T) {
	verifier, store, cfg, auth := newAuthFixture(false)
	verifier.On("Verify", "signed").Return(&domain.TelegramIdentity{ID: 31, FirstName: "Sanna"}, nil).Once()

	resp, err := auth.LoginWithInitData(context.Background(), "signed")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	member, err := store.FindMemberByTelegramID(context.Background(), 31)
	require.NoError(t, err)
	assert.False(t, member.IsActive)

	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, cfg.JWTSecret, cfg.JWTIssuer)
	require.NoError(t, err)
	assert.Equal(t, member.MemberID, claims.Subject)
	verifier.AssertExpectations(t)
}

func TestLogin_RejectedInitData(t *testing.T) {
	verifier, _, _, auth := newAuthFixture(true)
	verifier.On("Verify", "forged").Return(nil, errors.New("hash mismatch")).Once()

	_, err := auth.LoginWithInitData(context.Background(), "forged")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_EmptyInitDataOutsideDevMode(t *testing.T) {
	verifier, _, _, auth := newAuthFixture(false)
	verifier.On("Verify", "").Return(nil, errors.New("init data is empty")).Once()

	_, err := auth.LoginWithInitData(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_DevModeWithoutInitData(t *testing.T) {
	verifier, store, _, auth := newAuthFixture(true)

	_, err := auth.LoginWithInitData(context.Background(), "  ")
	require.NoError(t, err)

	dev, err := store.FindMemberByTelegramID(context.Background(), services.DevTelegramID)
	require.NoError(t, err)
	assert.True(t, dev.IsAdmin)
	assert.True(t, dev.IsActive)
	assert.Equal(t, "Dev", dev.FirstName)
	verifier.AssertNotCalled(t, "Verify", mock.Anything)
}
