// Package telegram verifies Mini App logins and delivers bot messages.
package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

var (
	ErrMissingHash     = errors.New("init data: missing hash")
	ErrInvalidHash     = errors.New("init data: invalid hash")
	ErrMissingAuthDate = errors.New("init data: missing auth_date")
	ErrExpired         = errors.New("init data: expired")
	ErrMissingUser     = errors.New("init data: missing user")
	ErrNoBotToken      = errors.New("init data: bot token not configured")
)

// InitDataVerifier checks the signature Telegram attaches to Mini App init data.
type InitDataVerifier struct {
	botToken string
	maxAge   time.Duration
}

var _ portssvc.IdentityVerifier = (*InitDataVerifier)(nil)

// NewInitDataVerifier creates a verifier. A zero maxAge disables the auth_date check.
func NewInitDataVerifier(botToken string, maxAge time.Duration) *InitDataVerifier {
	return &InitDataVerifier{botToken: botToken, maxAge: maxAge}
}

// Verify validates raw init data (the query string Telegram hands the Mini App)
// and returns the user it was issued for.
func (v *InitDataVerifier) Verify(raw string) (*domain.TelegramIdentity, error) {
	if v.botToken == "" {
		return nil, ErrNoBotToken
	}
	if err := initdata.Validate(raw, v.botToken, v.maxAge); err != nil {
		return nil, validationError(err)
	}

	data, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("init data: %w", err)
	}
	if data.User.ID <= 0 {
		return nil, ErrMissingUser
	}
	return &domain.TelegramIdentity{
		ID:        data.User.ID,
		FirstName: data.User.FirstName,
		LastName:  optional(data.User.LastName),
		Username:  optional(data.User.Username),
	}, nil
}

func validationError(err error) error {
	switch {
	case errors.Is(err, initdata.ErrSignMissing):
		return ErrMissingHash
	case errors.Is(err, initdata.ErrSignInvalid):
		return ErrInvalidHash
	case errors.Is(err, initdata.ErrAuthDateMissing):
		return ErrMissingAuthDate
	case errors.Is(err, initdata.ErrExpired):
		return ErrExpired
	default:
		return fmt.Errorf("init data: %w", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
