package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	ErrMemberInactive     = fmt.Errorf("%w: member is not active", apperrors.ErrForbidden)
	ErrAdminRequired      = fmt.Errorf("%w: admin rights required", apperrors.ErrForbidden)
	ErrMemberAlreadyAdmin = fmt.Errorf("%w: member is already an admin", apperrors.ErrInvalidState)
	ErrMemberNotAdmin     = fmt.Errorf("%w: member is not an admin", apperrors.ErrInvalidState)
	ErrMemberAlreadyOn    = fmt.Errorf("%w: member is already active", apperrors.ErrInvalidState)
	ErrMemberAlreadyOff   = fmt.Errorf("%w: member is already inactive", apperrors.ErrInvalidState)
	ErrLastAdmin          = fmt.Errorf("%w: at least one active admin must remain", apperrors.ErrInvalidState)
)

// Member is an account holder with a running balance.
// Balance is the sum of approved transaction amounts since the last fiscal period close.
type Member struct {
	MemberID   string          `json:"memberID"`
	TelegramID int64           `json:"telegramID"`
	FirstName  string          `json:"firstName"`
	LastName   *string         `json:"lastName,omitempty"`
	Username   *string         `json:"username,omitempty"`
	IsAdmin    bool            `json:"isAdmin"`
	IsActive   bool            `json:"isActive"`
	Balance    decimal.Decimal `json:"balance"`
	AddedBy    *string         `json:"addedBy,omitempty"`
	AuditFields
}

// DisplayName joins first and last name.
func (m Member) DisplayName() string {
	if m.LastName == nil || strings.TrimSpace(*m.LastName) == "" {
		return m.FirstName
	}
	return m.FirstName + " " + *m.LastName
}

// EnsureActive returns ErrMemberInactive for deactivated or not yet approved members.
func (m Member) EnsureActive() error {
	if !m.IsActive {
		return ErrMemberInactive
	}
	return nil
}

// EnsureAdmin requires an active admin.
func (m Member) EnsureAdmin() error {
	if err := m.EnsureActive(); err != nil {
		return err
	}
	if !m.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// TelegramIdentity is the verified identity delivered by the messaging platform.
type TelegramIdentity struct {
	ID        int64
	FirstName string
	LastName  *string
	Username  *string
}

// ProfileDiffers reports whether the stored names are out of date with the identity.
func (m Member) ProfileDiffers(id TelegramIdentity) bool {
	return m.FirstName != id.FirstName || !equalOptional(m.LastName, id.LastName) || !equalOptional(m.Username, id.Username)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MemberFilter narrows member listings.
type MemberFilter struct {
	ActiveOnly  bool
	PendingOnly bool // inactive members, e.g. awaiting approval
}
