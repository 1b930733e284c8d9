package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct {
	notifier portssvc.NotificationSvc
	events   portssvc.EventPublisher
	runner   portssvc.BackgroundRunner
	now      func() time.Time
}

// ServiceOption configures the shared BaseService of any service.
type ServiceOption func(*BaseService)

// WithNotifier sets the notification collaborator used after commits.
func WithNotifier(n portssvc.NotificationSvc) ServiceOption {
	return func(b *BaseService) { b.notifier = n }
}

// WithEventPublisher sets where committed ledger events are published.
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(b *BaseService) { b.events = p }
}

// WithBackgroundRunner sets how post-commit side effects are scheduled.
func WithBackgroundRunner(r portssvc.BackgroundRunner) ServiceOption {
	return func(b *BaseService) { b.runner = r }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(b *BaseService) { b.now = now }
}

func newBaseService(opts ...ServiceOption) BaseService {
	b := BaseService{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	if b.runner == nil {
		b.runner = InlineRunner{}
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).ErrorContext(ctx, msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// Now returns the current UTC time from the configured clock.
func (s *BaseService) Now() time.Time {
	return s.now().UTC()
}

// withTx runs fn inside a database transaction and commits if fn succeeds.
// The deferred rollback is a no-op after a successful commit.
func (s *BaseService) withTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction")
		return err
	}
	defer func() {
		if rbErr := tm.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tm.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction")
		return err
	}
	return nil
}

// afterCommit schedules fn on the background runner. It must only be called once
// the unit of work has committed.
func (s *BaseService) afterCommit(ctx context.Context, name string, fn func(ctx context.Context)) {
	s.runner.Go(ctx, name, fn)
}

// notifyAfterCommit sends one notification in the background. Failures are logged by the notifier.
func (s *BaseService) notifyAfterCommit(ctx context.Context, eventType domain.EventType, member domain.Member, vars map[string]string) {
	if s.notifier == nil {
		return
	}
	s.afterCommit(ctx, "notify:"+string(eventType), func(ctx context.Context) {
		s.notifier.Notify(ctx, eventType, member, vars)
	})
}

// publishAfterCommit sends ledger events in the background. Failures are logged and dropped.
func (s *BaseService) publishAfterCommit(ctx context.Context, events ...domain.LedgerEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	s.afterCommit(ctx, "publish", func(ctx context.Context) {
		for _, ev := range events {
			if err := s.events.Publish(ctx, ev); err != nil {
				s.LogError(ctx, err, "Failed to publish ledger event",
					slog.String("kind", string(ev.Kind)),
					slog.String("entity_id", ev.EntityID))
			}
		}
	})
}

func (s *BaseService) ledgerEvent(kind domain.LedgerEventKind, actorID, memberID, entityID string, amount decimal.Decimal, status string) domain.LedgerEvent {
	return domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Kind:       kind,
		OccurredAt: s.Now(),
		ActorID:    actorID,
		MemberID:   memberID,
		EntityID:   entityID,
		Amount:     amount,
		Status:     status,
	}
}

func requireActiveAdmin(member domain.Member) error {
	if err := member.EnsureActive(); err != nil {
		return err
	}
	return member.EnsureAdmin()
}
