package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

func (s *Store) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, includeInactive bool) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range s.data.products {
		if includeInactive || p.IsActive {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (s *Store) CountProducts(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.products), nil
}

func (s *Store) SaveProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.products[product.ProductID]; exists {
		return fmt.Errorf("product %s: %w", product.ProductID, apperrors.ErrDuplicate)
	}
	s.data.products[product.ProductID] = product
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data.products[product.ProductID]
	if !ok {
		return fmt.Errorf("product %s: %w", product.ProductID, apperrors.ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	s.data.products[product.ProductID] = product
	return nil
}

func (s *Store) FindTemplateByID(_ context.Context, templateID string) (*domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("message template %s: %w", templateID, apperrors.ErrNotFound)
	}
	return &t, nil
}

func (s *Store) FindTemplateByEventType(_ context.Context, eventType domain.EventType) (*domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.templates {
		if t.EventType == eventType {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("message template %s: %w", eventType, apperrors.ErrNotFound)
}

func (s *Store) ListTemplates(_ context.Context) ([]domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MessageTemplate, 0, len(s.data.templates))
	for _, t := range s.data.templates {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.MessageTemplate) int { return cmp.Compare(a.EventType, b.EventType) })
	return out, nil
}

func (s *Store) SaveTemplateIfMissing(_ context.Context, template domain.MessageTemplate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.templates {
		if t.EventType == template.EventType {
			return false, nil
		}
	}
	s.data.templates[template.TemplateID] = template
	return true, nil
}

func (s *Store) UpdateTemplate(_ context.Context, template domain.MessageTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data.templates[template.TemplateID]
	if !ok {
		return fmt.Errorf("message template %s: %w", template.TemplateID, apperrors.ErrNotFound)
	}
	existing.Template = template.Template
	existing.IsActive = template.IsActive
	existing.UpdatedAt = template.UpdatedAt
	s.data.templates[existing.TemplateID] = existing
	return nil
}
