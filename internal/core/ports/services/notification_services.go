package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// NotificationSvc renders templates and delivers them to members.
// Failures are logged and reported through the return values only.
type NotificationSvc interface {
	Notify(ctx context.Context, eventType domain.EventType, member domain.Member, vars map[string]string) bool
	NotifyMany(ctx context.Context, eventType domain.EventType, targets []domain.NotificationTarget) int
}

// MessageSender delivers a rendered text to a chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// EventPublisher publishes committed ledger changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}

// BackgroundRunner runs post-commit side effects without blocking the caller.
type BackgroundRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context))
}
