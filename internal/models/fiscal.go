package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FiscalPeriod is the row shape of the fiscal_periods table.
type FiscalPeriod struct {
	PeriodID  string       `db:"period_id"`
	StartedAt time.Time    `db:"started_at"`
	EndedAt   sql.NullTime `db:"ended_at"`
	CreatedAt time.Time    `db:"created_at"`
}

// FiscalDebt is the row shape of the fiscal_debts table.
type FiscalDebt struct {
	DebtID     string          `db:"debt_id"`
	PeriodID   string          `db:"period_id"`
	MemberID   string          `db:"member_id"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	PaidAt     sql.NullTime    `db:"paid_at"`
	CreatedAt  time.Time       `db:"created_at"`
	MemberName sql.NullString  `db:"member_name"`
}
