package dto

import (
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest charges the caller for a product.
type CreatePurchaseRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=50"`
}

// CreatePaymentRequest is an admin-recorded payment for a member.
type CreatePaymentRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note     *string         `json:"note" binding:"omitempty,max=500"`
}

// PaymentSelfRequest is a member asking for their own account to be credited.
type PaymentSelfRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note   *string         `json:"note" binding:"omitempty,max=500"`
}

// ListTransactionsParams defines query parameters for transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse is the public shape of a ledger transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	MemberID      string                   `json:"memberID"`
	MemberName    *string                  `json:"memberName,omitempty"`
	ProductID     *string                  `json:"productID,omitempty"`
	ProductName   *string                  `json:"productName,omitempty"`
	Type          domain.TransactionType   `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	Quantity      int                      `json:"quantity"`
	Status        domain.TransactionStatus `json:"status"`
	ApprovedBy    *string                  `json:"approvedBy,omitempty"`
	CreatedBy     string                   `json:"createdBy"`
	Note          *string                  `json:"note,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		MemberID:      t.MemberID,
		MemberName:    t.MemberName,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		Type:          t.Type,
		Amount:        t.Amount,
		Quantity:      t.Quantity,
		Status:        t.Status,
		ApprovedBy:    t.ApprovedBy,
		CreatedBy:     t.CreatedBy,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionListResponse converts a slice of domain.Transaction
func ToTransactionListResponse(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToTransactionResponse(&txs[i])
	}
	return out
}
