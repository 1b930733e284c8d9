package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType keys a notification template.
type EventType string

const (
	EventFiscalPeriodClosed  EventType = "fiscal_period_closed"
	EventDebtPaymentApproved EventType = "debt_payment_approved"
	EventDebtPaymentRejected EventType = "debt_payment_rejected"
	EventUserApproved        EventType = "user_approved"
	EventUserPromoted        EventType = "user_promoted"
	EventUserDemoted         EventType = "user_demoted"
	EventUserDeactivated     EventType = "user_deactivated"
	EventPaymentApproved     EventType = "payment_approved"
	EventPaymentRejected     EventType = "payment_rejected"
)

// AllEventTypes lists every event the ledger emits notifications for.
var AllEventTypes = []EventType{
	EventFiscalPeriodClosed,
	EventDebtPaymentApproved,
	EventDebtPaymentRejected,
	EventUserApproved,
	EventUserPromoted,
	EventUserDemoted,
	EventUserDeactivated,
	EventPaymentApproved,
	EventPaymentRejected,
}

// NotificationTarget pairs a recipient with template variables.
type NotificationTarget struct {
	Member Member
	Vars   map[string]string
}

// MoneyVar formats an amount the way templates expect it.
func MoneyVar(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LedgerEventKind names committed ledger changes published to the event stream.
type LedgerEventKind string

const (
	LedgerTransactionCreated  LedgerEventKind = "transaction.created"
	LedgerTransactionApproved LedgerEventKind = "transaction.approved"
	LedgerTransactionRejected LedgerEventKind = "transaction.rejected"
	LedgerPeriodClosed        LedgerEventKind = "fiscal_period.closed"
	LedgerDebtStatusChanged   LedgerEventKind = "fiscal_debt.status_changed"
	LedgerMembersWiped        LedgerEventKind = "members.wiped"
)

// LedgerEvent is the wire shape of a committed ledger change.
type LedgerEvent struct {
	EventID    string          `json:"eventID"`
	Kind       LedgerEventKind `json:"kind"`
	OccurredAt time.Time       `json:"occurredAt"`
	ActorID    string          `json:"actorID"`
	MemberID   string          `json:"memberID,omitempty"`
	EntityID   string          `json:"entityID"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status,omitempty"`
}
