package repositories

import (
	"context"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
)

// ProductReader defines read operations for the catalogue
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts lists products by sort order then name.
	ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error)

	CountProducts(ctx context.Context) (int, error)
}

// ProductWriter defines write operations for the catalogue
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
}

// ProductRepositoryFacade combines all product repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
