package repositories

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// MessageTemplateRepositoryFacade defines persistence for notification templates
type MessageTemplateRepositoryFacade interface {
	FindTemplateByID(ctx context.Context, templateID string) (*domain.MessageTemplate, error)
	FindTemplateByEventType(ctx context.Context, eventType domain.EventType) (*domain.MessageTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.MessageTemplate, error)

	// SaveTemplateIfMissing inserts a template unless one exists for its event type.
	SaveTemplateIfMissing(ctx context.Context, template domain.MessageTemplate) (bool, error)

	UpdateTemplate(ctx context.Context, template domain.MessageTemplate) error
}
