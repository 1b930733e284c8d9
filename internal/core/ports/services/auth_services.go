package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/dto"
)

// IdentityVerifier checks platform-signed init data and extracts the identity.
type IdentityVerifier interface {
	Verify(initData string) (*domain.TelegramIdentity, error)
}

// AuthSvc exchanges platform init data for a session token.
type AuthSvc interface {
	LoginWithInitData(ctx context.Context, initData string) (*dto.AuthResponse, error)
}
