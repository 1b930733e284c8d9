// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsTotal counts ledger transactions by type and resulting status.
var TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "transactions_total",
	Help:      "Ledger transactions created or finalised, by type and status.",
}, []string{"type", "status"})

// BalanceDeltaTotal sums the absolute value of applied balance changes.
var BalanceDeltaTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "balance_delta_total",
	Help:      "Sum of absolute balance changes applied to members.",
})

// FiscalPeriodCloses counts successful period closes.
var FiscalPeriodCloses = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "fiscal_period_closes_total",
	Help:      "Fiscal periods closed.",
})

// FiscalDebtsCreated counts debts snapshotted by period closes.
var FiscalDebtsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "fiscal_debts_created_total",
	Help:      "Fiscal debts created by period closes.",
})

// DebtTransitions counts debt status changes by target status.
var DebtTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "debt_transitions_total",
	Help:      "Fiscal debt status transitions, by new status.",
}, []string{"to"})

// NotificationsTotal counts notification attempts by event type and result.
var NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tab",
	Name:      "notifications_total",
	Help:      "Notification attempts, by event type and result (sent, skipped, failed).",
}, []string{"event_type", "result"})

// HTTPRequestDuration observes request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "tab",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})
