package mapping

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		MemberID:      d.MemberID,
		ProductID:     toNullString(d.ProductID),
		Type:          string(d.Type),
		Amount:        d.Amount,
		Status:        string(d.Status),
		ApprovedBy:    toNullString(d.ApprovedBy),
		Quantity:      d.Quantity,
		Note:          toNullString(d.Note),
		AuditFields:   models.AuditFields(d.AuditFields),
		ProductName:   toNullString(d.ProductName),
		MemberName:    toNullString(d.MemberName),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		MemberID:      m.MemberID,
		ProductID:     fromNullString(m.ProductID),
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Status:        domain.TransactionStatus(m.Status),
		ApprovedBy:    fromNullString(m.ApprovedBy),
		Quantity:      m.Quantity,
		Note:          fromNullString(m.Note),
		AuditFields:   domain.AuditFields(m.AuditFields),
		ProductName:   fromNullString(m.ProductName),
		MemberName:    fromNullString(m.MemberName),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
