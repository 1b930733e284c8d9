package dto

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a product to the catalogue.
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required,notblank,max=100"`
	Price     decimal.Decimal `json:"price" binding:"required,gt=0"`
	Emoji     string          `json:"emoji" binding:"max=16"`
	SortOrder int             `json:"sortOrder"`
}

// UpdateProductRequest uses pointers to differentiate between omitted fields and zero-value fields.
type UpdateProductRequest struct {
	Name      *string          `json:"name" binding:"omitempty,notblank,max=100"`
	Price     *decimal.Decimal `json:"price" binding:"omitempty,gt=0"`
	Emoji     *string          `json:"emoji" binding:"omitempty,max=16"`
	SortOrder *int             `json:"sortOrder"`
	IsActive  *bool            `json:"isActive"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	IncludeInactive bool `form:"include_inactive,default=false"`
}

// ProductResponse is the public shape of a product.
type ProductResponse struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Emoji     string          `json:"emoji"`
	IsActive  bool            `json:"isActive"`
	SortOrder int             `json:"sortOrder"`
}

// ToProductResponse converts a domain.Product
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Emoji:     p.Emoji,
		IsActive:  p.IsActive,
		SortOrder: p.SortOrder,
	}
}

// ToProductListResponse converts a slice of domain.Product
func ToProductListResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
