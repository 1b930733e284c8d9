package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	notifySent    = "sent"
	notifySkipped = "skipped"
	notifyFailed  = "failed"
)

type notificationService struct {
	BaseService
	templateRepo portsrepo.MessageTemplateRepositoryFacade
	sender       portssvc.MessageSender
	concurrency  int
}

// NewNotificationService renders event templates and hands them to sender.
// NotifyMany sends to at most concurrency members at a time.
func NewNotificationService(templateRepo portsrepo.MessageTemplateRepositoryFacade, sender portssvc.MessageSender, concurrency int, opts ...ServiceOption) portssvc.NotificationSvc {
	if concurrency < 1 {
		concurrency = 1
	}
	return &notificationService{
		BaseService:  newBaseService(opts...),
		templateRepo: templateRepo,
		sender:       sender,
		concurrency:  concurrency,
	}
}

var _ portssvc.NotificationSvc = (*notificationService)(nil)

// activeTemplate returns nil without error when the event has no usable template.
func (s *notificationService) activeTemplate(ctx context.Context, eventType domain.EventType) (*domain.MessageTemplate, error) {
	tmpl, err := s.templateRepo.FindTemplateByEventType(ctx, eventType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, nil
	}
	return tmpl, nil
}

func (s *notificationService) Notify(ctx context.Context, eventType domain.EventType, member domain.Member, vars map[string]string) bool {
	tmpl, err := s.activeTemplate(ctx, eventType)
	if err != nil {
		s.LogError(ctx, err, "Failed to load message template", slog.String("event_type", string(eventType)))
		metrics.NotificationsTotal.WithLabelValues(string(eventType), notifyFailed).Inc()
		return false
	}
	if tmpl == nil {
		s.LogDebug(ctx, "No active template, notification skipped", slog.String("event_type", string(eventType)))
		metrics.NotificationsTotal.WithLabelValues(string(eventType), notifySkipped).Inc()
		return false
	}
	return s.deliver(ctx, tmpl, member, vars)
}

func (s *notificationService) NotifyMany(ctx context.Context, eventType domain.EventType, targets []domain.NotificationTarget) int {
	if len(targets) == 0 {
		return 0
	}
	tmpl, err := s.activeTemplate(ctx, eventType)
	if err != nil {
		s.LogError(ctx, err, "Failed to load message template", slog.String("event_type", string(eventType)))
		metrics.NotificationsTotal.WithLabelValues(string(eventType), notifyFailed).Add(float64(len(targets)))
		return 0
	}
	if tmpl == nil {
		metrics.NotificationsTotal.WithLabelValues(string(eventType), notifySkipped).Add(float64(len(targets)))
		return 0
	}

	var sent atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, target := range targets {
		g.Go(func() error {
			if s.deliver(gctx, tmpl, target.Member, target.Vars) {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(sent.Load())
}

func (s *notificationService) deliver(ctx context.Context, tmpl *domain.MessageTemplate, member domain.Member, vars map[string]string) bool {
	eventType := string(tmpl.EventType)
	text, err := tmpl.Render(vars)
	if err != nil {
		s.LogError(ctx, err, "Failed to render message template",
			slog.String("event_type", eventType),
			slog.String("member_id", member.MemberID))
		metrics.NotificationsTotal.WithLabelValues(eventType, notifyFailed).Inc()
		return false
	}
	if err := s.sender.SendMessage(ctx, member.TelegramID, text); err != nil {
		s.LogError(ctx, err, "Failed to send notification",
			slog.String("event_type", eventType),
			slog.String("member_id", member.MemberID))
		metrics.NotificationsTotal.WithLabelValues(eventType, notifyFailed).Inc()
		return false
	}
	metrics.NotificationsTotal.WithLabelValues(eventType, notifySent).Inc()
	return true
}
