package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemberMapping_NullableFields(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	last := "Virtanen"

	withLast := domain.Member{
		MemberID:    "m-1",
		TelegramID:  42,
		FirstName:   "Aino",
		LastName:    &last,
		IsActive:    true,
		Balance:     decimal.RequireFromString("-3.50"),
		AuditFields: domain.NewAuditFields("admin", now),
	}

	model := ToModelMember(withLast)
	assert.True(t, model.LastName.Valid)
	assert.False(t, model.Username.Valid)
	assert.False(t, model.AddedBy.Valid)

	back := ToDomainMember(model)
	assert.Equal(t, withLast.MemberID, back.MemberID)
	assert.Equal(t, "Virtanen", *back.LastName)
	assert.Nil(t, back.Username)
	assert.True(t, withLast.Balance.Equal(back.Balance))
	assert.Equal(t, now, back.CreatedAt)
}

func TestFiscalDebtMapping_PaidAt(t *testing.T) {
	now := time.Now().UTC()
	unpaid := domain.FiscalDebt{DebtID: "d-1", Status: domain.DebtUnpaid}
	assert.False(t, ToModelFiscalDebt(unpaid).PaidAt.Valid)

	paid := domain.FiscalDebt{DebtID: "d-2", Status: domain.DebtPaid, PaidAt: &now}
	back := ToDomainFiscalDebt(ToModelFiscalDebt(paid))
	if assert.NotNil(t, back.PaidAt) {
		assert.True(t, now.Equal(*back.PaidAt))
	}
	assert.Equal(t, domain.DebtPaid, back.Status)
}
