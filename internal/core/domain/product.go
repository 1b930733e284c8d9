package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

var ErrProductUnavailable = fmt.Errorf("%w: product not found or inactive", apperrors.ErrNotFound)

// Product is a catalogue item. Price is copied into transactions at purchase time.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Emoji     string          `json:"emoji"`
	IsActive  bool            `json:"isActive"`
	SortOrder int             `json:"sortOrder"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the fields an admin may set.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: product price must be positive", apperrors.ErrValidation)
	}
	return ValidateMoney(p.Price)
}
