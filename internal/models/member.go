package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Member is the row shape of the members table.
type Member struct {
	MemberID   string          `db:"member_id"`
	TelegramID int64           `db:"telegram_id"`
	FirstName  string          `db:"first_name"`
	LastName   sql.NullString  `db:"last_name"`
	Username   sql.NullString  `db:"username"`
	IsAdmin    bool            `db:"is_admin"`
	IsActive   bool            `db:"is_active"`
	Balance    decimal.Decimal `db:"balance"`
	AddedBy    sql.NullString  `db:"added_by"`
	AuditFields
}
