package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/google/uuid"
)

type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, opts ...ServiceOption) portssvc.ProductSvcFacade {
	return &productService{
		BaseService: newBaseService(opts...),
		productRepo: productRepo,
	}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// ListProducts returns the active catalogue. Only admins see inactive products.
func (s *productService) ListProducts(ctx context.Context, requester domain.Member, includeInactive bool) ([]domain.Product, error) {
	if includeInactive && requester.EnsureAdmin() != nil {
		includeInactive = false
	}
	return s.productRepo.ListProducts(ctx, includeInactive)
}

func (s *productService) CreateProduct(ctx context.Context, admin domain.Member, req dto.CreateProductRequest) (*domain.Product, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	product := domain.Product{
		ProductID: uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Emoji:     req.Emoji,
		IsActive:  true,
		SortOrder: req.SortOrder,
		CreatedAt: s.Now(),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to create product", slog.String("name", product.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("admin_id", admin.MemberID))
	return &product, nil
}

// UpdateProduct applies the non-nil fields of req. Existing transactions keep the price they were created with.
func (s *productService) UpdateProduct(ctx context.Context, admin domain.Member, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	if err := requireActiveAdmin(admin); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Emoji != nil {
		product.Emoji = *req.Emoji
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	s.LogInfo(ctx, "Product updated", slog.String("product_id", productID), slog.String("admin_id", admin.MemberID))
	return product, nil
}

// DeactivateProduct hides a product from the catalogue. Rows are never deleted
// because transactions reference them.
func (s *productService) DeactivateProduct(ctx context.Context, admin domain.Member, productID string) error {
	if err := requireActiveAdmin(admin); err != nil {
		return err
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	product.IsActive = false
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to deactivate product", slog.String("product_id", productID))
		return err
	}
	s.LogInfo(ctx, "Product deactivated", slog.String("product_id", productID), slog.String("admin_id", admin.MemberID))
	return nil
}
