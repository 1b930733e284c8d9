package mapping

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID: d.ProductID,
		Name:      d.Name,
		Price:     d.Price,
		Emoji:     d.Emoji,
		IsActive:  d.IsActive,
		SortOrder: d.SortOrder,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID: m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Emoji:     m.Emoji,
		IsActive:  m.IsActive,
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
	}
}

// ToModelMessageTemplate converts a domain MessageTemplate to a model MessageTemplate
func ToModelMessageTemplate(d domain.MessageTemplate) models.MessageTemplate {
	return models.MessageTemplate{
		TemplateID: d.TemplateID,
		EventType:  string(d.EventType),
		Template:   d.Template,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ToDomainMessageTemplate converts a model MessageTemplate to a domain MessageTemplate
func ToDomainMessageTemplate(m models.MessageTemplate) domain.MessageTemplate {
	return domain.MessageTemplate{
		TemplateID: m.TemplateID,
		EventType:  domain.EventType(m.EventType),
		Template:   m.Template,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
