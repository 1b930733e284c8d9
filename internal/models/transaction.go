package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
// ProductName and MemberName are only populated by joined listing queries.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	MemberID      string          `db:"member_id"`
	ProductID     sql.NullString  `db:"product_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	ApprovedBy    sql.NullString  `db:"approved_by"`
	Quantity      int             `db:"quantity"`
	Note          sql.NullString  `db:"note"`
	AuditFields

	ProductName sql.NullString `db:"product_name"`
	MemberName  sql.NullString `db:"member_name"`
}
