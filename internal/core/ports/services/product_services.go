package services

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/dto"
)

// ProductSvcFacade defines catalogue operations
type ProductSvcFacade interface {
	ListProducts(ctx context.Context, requester domain.Member, includeInactive bool) ([]domain.Product, error)
	CreateProduct(ctx context.Context, admin domain.Member, req dto.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, admin domain.Member, productID string, req dto.UpdateProductRequest) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, admin domain.Member, productID string) error
}

// MessageTemplateSvcFacade defines notification template administration
type MessageTemplateSvcFacade interface {
	ListTemplates(ctx context.Context, admin domain.Member) ([]domain.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, admin domain.Member, templateID string, req dto.UpdateMessageTemplateRequest) (*domain.MessageTemplate, error)
}

// SeederSvc loads the default catalogue and bootstrap data
type SeederSvc interface {
	Seed(ctx context.Context, adminTelegramIDs []int64) error
}
