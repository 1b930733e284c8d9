package handlers

import (
	"testing"

	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	ok := dto.PaymentSelfRequest{Amount: decimal.RequireFromString("0.50")}
	assert.NoError(t, binding.Validator.ValidateStruct(ok))

	for _, amount := range []string{"0", "-1.00"} {
		req := dto.PaymentSelfRequest{Amount: decimal.RequireFromString(amount)}
		assert.Error(t, binding.Validator.ValidateStruct(req), "amount %s", amount)
	}

	blank := dto.CreateProductRequest{Name: "   ", Price: decimal.NewFromInt(1)}
	assert.Error(t, binding.Validator.ValidateStruct(blank))

	price := decimal.NewFromInt(-1)
	update := dto.UpdateProductRequest{Price: &price}
	assert.Error(t, binding.Validator.ValidateStruct(update))
}
