package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance-affecting event.
type TransactionType string

const (
	Purchase TransactionType = "purchase"
	Payment  TransactionType = "payment"
)

// TransactionStatus tracks the approval workflow. Approved and rejected are terminal.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionRejected TransactionStatus = "rejected"
)

var (
	ErrTransactionNotPending = fmt.Errorf("%w: transaction is not pending", apperrors.ErrInvalidState)
	ErrNonPositiveAmount     = fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrValidation)
	ErrAmountPrecision       = fmt.Errorf("%w: amount must have at most 2 decimal places", apperrors.ErrValidation)
	ErrAmountTooLarge        = fmt.Errorf("%w: amount exceeds the supported range", apperrors.ErrValidation)
)

// maxMoney is the first magnitude that no longer fits NUMERIC(12,2).
var maxMoney = decimal.New(1, 10)

// ValidateMoney rejects amounts that cannot be stored exactly in a NUMERIC(12,2) column.
func ValidateMoney(amount decimal.Decimal) error {
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return ErrAmountPrecision
	}
	if amount.Abs().GreaterThanOrEqual(maxMoney) {
		return ErrAmountTooLarge
	}
	return nil
}

// Transaction is a purchase or payment against a member's balance.
// Purchases carry negative amounts, payments positive ones.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	MemberID      string            `json:"memberID"`
	ProductID     *string           `json:"productID,omitempty"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	ApprovedBy    *string           `json:"approvedBy,omitempty"`
	Quantity      int               `json:"quantity"`
	Note          *string           `json:"note,omitempty"`
	AuditFields

	// Read-model only, filled by listing queries.
	ProductName *string `json:"productName,omitempty"`
	MemberName  *string `json:"memberName,omitempty"`
}

// IsPending reports whether the transaction can still be approved or rejected.
func (t Transaction) IsPending() bool {
	return t.Status == TransactionPending
}

// Approve moves a pending transaction to approved.
// The caller applies Amount to the owner's balance in the same unit of work.
func (t *Transaction) Approve(adminID string, now time.Time) error {
	if !t.IsPending() {
		return ErrTransactionNotPending
	}
	t.Status = TransactionApproved
	t.ApprovedBy = &adminID
	t.Touch(adminID, now)
	return nil
}

// Reject moves a pending transaction to rejected. It never affects balance.
func (t *Transaction) Reject(adminID string, now time.Time) error {
	if !t.IsPending() {
		return ErrTransactionNotPending
	}
	t.Status = TransactionRejected
	t.ApprovedBy = &adminID
	t.Touch(adminID, now)
	return nil
}

// BalanceDelta is the amount to add to the owner's balance once approved.
func (t Transaction) BalanceDelta() decimal.Decimal {
	if t.Status != TransactionApproved {
		return decimal.Zero
	}
	return t.Amount
}

// PurchaseAmount is the signed amount charged for quantity units at price.
func PurchaseAmount(price decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: product price must be positive", apperrors.ErrValidation)
	}
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	if err := ValidateMoney(total); err != nil {
		return decimal.Zero, err
	}
	return total.Neg(), nil
}

// ValidatePaymentAmount rejects zero, negative and unstorable payment amounts.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return ValidateMoney(amount)
}

// TransactionSummary aggregates approved transactions of one type.
type TransactionSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
