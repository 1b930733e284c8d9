package dto

import (
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMemberRequest is used by admins to add a member by their Telegram id.
type CreateMemberRequest struct {
	TelegramID int64   `json:"telegramID" binding:"required,gt=0"`
	FirstName  string  `json:"firstName" binding:"required,notblank,max=100"`
	LastName   *string `json:"lastName" binding:"omitempty,max=100"`
	Username   *string `json:"username" binding:"omitempty,max=64"`
}

// ListMembersParams defines query parameters for listing members.
type ListMembersParams struct {
	Status string `form:"status,default=all" binding:"omitempty,oneof=all active pending"`
}

// Filter converts the query status to a repository filter.
func (p ListMembersParams) Filter() domain.MemberFilter {
	switch p.Status {
	case "active":
		return domain.MemberFilter{ActiveOnly: true}
	case "pending":
		return domain.MemberFilter{PendingOnly: true}
	default:
		return domain.MemberFilter{}
	}
}

// LeaderboardParams defines query parameters for the leaderboard.
type LeaderboardParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=200"`
}

// MemberResponse is the public shape of a member.
type MemberResponse struct {
	MemberID   string          `json:"memberID"`
	TelegramID int64           `json:"telegramID"`
	FirstName  string          `json:"firstName"`
	LastName   *string         `json:"lastName,omitempty"`
	Username   *string         `json:"username,omitempty"`
	IsAdmin    bool            `json:"isAdmin"`
	IsActive   bool            `json:"isActive"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// DeactivateNonAdminsResponse reports the result of a bulk wipe.
type DeactivateNonAdminsResponse struct {
	Deactivated int64 `json:"deactivated"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:   m.MemberID,
		TelegramID: m.TelegramID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Username:   m.Username,
		IsAdmin:    m.IsAdmin,
		IsActive:   m.IsActive,
		Balance:    m.Balance,
		CreatedAt:  m.CreatedAt,
	}
}

// ToMemberListResponse converts a slice of domain.Member
func ToMemberListResponse(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i])
	}
	return out
}
