package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_AdminLifecycle(t *testing.T) {
	f := newLedgerFixture(t, true)
	admin := f.addMember("Aino", true, true, "0")
	member := f.addMember("Eero", false, true, "0")

	coffee, err := f.products.CreateProduct(f.ctx, admin, dto.CreateProductRequest{Name: " Coffee ", Price: dec("1.50"), SortOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", coffee.Name)
	_, err = f.products.CreateProduct(f.ctx, admin, dto.CreateProductRequest{Name: "Tea", Price: dec("1.00"), SortOrder: 1})
	require.NoError(t, err)

	_, err = f.products.CreateProduct(f.ctx, admin, dto.CreateProductRequest{Name: "Free", Price: dec("0")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.products.CreateProduct(f.ctx, member, dto.CreateProductRequest{Name: "Beer", Price: dec("3")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	price := dec("1.80")
	updated, err := f.products.UpdateProduct(f.ctx, admin, coffee.ProductID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))

	require.NoError(t, f.products.DeactivateProduct(f.ctx, admin, coffee.ProductID))
	require.NoError(t, f.products.DeactivateProduct(f.ctx, admin, coffee.ProductID), "deactivating twice is a no-op")

	visible, err := f.products.ListProducts(f.ctx, member, true)
	require.NoError(t, err)
	require.Len(t, visible, 1, "members never see inactive products")
	assert.Equal(t, "Tea", visible[0].Name)

	all, err := f.products.ListProducts(f.ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = f.products.DeactivateProduct(f.ctx, admin, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMessageTemplates_Update(t *testing.T) {
	store := memory.NewStore()
	saveTemplate(t, store, domain.EventUserApproved, "Welcome {user}!", true)
	svc := services.NewMessageTemplateService(store)
	admin := domain.Member{MemberID: "a", IsAdmin: true, IsActive: true}
	ctx := context.Background()

	text := "Tervetuloa {user}! {{club}}"
	off := false
	updated, err := svc.UpdateTemplate(ctx, admin, string(domain.EventUserApproved), dto.UpdateMessageTemplateRequest{Template: &text, IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	rendered, err := updated.Render(map[string]string{"user": "Eero"})
	require.NoError(t, err)
	assert.Equal(t, "Tervetuloa Eero! {club}", rendered)

	broken := "Hello {user"
	_, err = svc.UpdateTemplate(ctx, admin, string(domain.EventUserApproved), dto.UpdateMessageTemplateRequest{Template: &broken})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := store.FindTemplateByEventType(ctx, domain.EventUserApproved)
	require.NoError(t, err)
	assert.Equal(t, text, stored.Template, "invalid edits are not saved")

	_, err = svc.UpdateTemplate(ctx, admin, "missing", dto.UpdateMessageTemplateRequest{IsActive: &off})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.ListTemplates(ctx, domain.Member{IsActive: true})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
