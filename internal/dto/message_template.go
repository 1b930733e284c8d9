package dto

import (
	"time"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// UpdateMessageTemplateRequest edits template text or toggles it.
type UpdateMessageTemplateRequest struct {
	Template *string `json:"template" binding:"omitempty,notblank,max=4096"`
	IsActive *bool   `json:"isActive"`
}

// MessageTemplateResponse is the public shape of a template.
type MessageTemplateResponse struct {
	TemplateID string           `json:"templateID"`
	EventType  domain.EventType `json:"eventType"`
	Template   string           `json:"template"`
	IsActive   bool             `json:"isActive"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// ToMessageTemplateResponse converts a domain.MessageTemplate
func ToMessageTemplateResponse(t *domain.MessageTemplate) MessageTemplateResponse {
	return MessageTemplateResponse{
		TemplateID: t.TemplateID,
		EventType:  t.EventType,
		Template:   t.Template,
		IsActive:   t.IsActive,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ToMessageTemplateListResponse converts a slice of domain.MessageTemplate
func ToMessageTemplateListResponse(templates []domain.MessageTemplate) []MessageTemplateResponse {
	out := make([]MessageTemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToMessageTemplateResponse(&templates[i])
	}
	return out
}
