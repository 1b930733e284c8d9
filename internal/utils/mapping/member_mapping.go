package mapping

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/models"
)

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:    d.MemberID,
		TelegramID:  d.TelegramID,
		FirstName:   d.FirstName,
		LastName:    toNullString(d.LastName),
		Username:    toNullString(d.Username),
		IsAdmin:     d.IsAdmin,
		IsActive:    d.IsActive,
		Balance:     d.Balance,
		AddedBy:     toNullString(d.AddedBy),
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:    m.MemberID,
		TelegramID:  m.TelegramID,
		FirstName:   m.FirstName,
		LastName:    fromNullString(m.LastName),
		Username:    fromNullString(m.Username),
		IsAdmin:     m.IsAdmin,
		IsActive:    m.IsActive,
		Balance:     m.Balance,
		AddedBy:     fromNullString(m.AddedBy),
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}

// ToDomainMemberSlice converts a slice of model Members to a slice of domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
