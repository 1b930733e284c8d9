package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
)

type messageTemplateService struct {
	BaseService
	templateRepo portsrepo.MessageTemplateRepositoryFacade
}

func NewMessageTemplateService(templateRepo portsrepo.MessageTemplateRepositoryFacade, opts ...ServiceOption) portssvc.MessageTemplateSvcFacade {
	return &messageTemplateService{
		BaseService:  newBaseService(opts...),
		templateRepo: templateRepo,
	}
}

var _ portssvc.MessageTemplateSvcFacade = (*messageTemplateService)(nil)

func (s *messageTemplateService) ListTemplates(ctx context.Context, admin domain.Member) ([]domain.MessageTemplate, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}
	return s.templateRepo.ListTemplates(ctx)
}

// UpdateTemplate edits the text or active flag. New text must render; placeholder
// names are not checked against the event.
func (s *messageTemplateService) UpdateTemplate(ctx context.Context, admin domain.Member, templateID string, req dto.UpdateMessageTemplateRequest) (*domain.MessageTemplate, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if req.Template != nil {
		tmpl.Template = *req.Template
		if err := tmpl.CheckSyntax(); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		tmpl.IsActive = *req.IsActive
	}
	tmpl.UpdatedAt = s.Now()

	if err := s.templateRepo.UpdateTemplate(ctx, *tmpl); err != nil {
		s.LogError(ctx, err, "Failed to update message template", slog.String("template_id", templateID))
		return nil, err
	}
	s.LogInfo(ctx, "Message template updated",
		slog.String("template_id", templateID),
		slog.String("event_type", string(tmpl.EventType)),
		slog.String("admin_id", admin.MemberID))
	return tmpl, nil
}
