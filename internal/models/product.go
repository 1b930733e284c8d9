package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the row shape of the products table.
type Product struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Emoji     string          `db:"emoji"`
	IsActive  bool            `db:"is_active"`
	SortOrder int             `db:"sort_order"`
	CreatedAt time.Time       `db:"created_at"`
}

// MessageTemplate is the row shape of the message_templates table.
type MessageTemplate struct {
	TemplateID string    `db:"template_id"`
	EventType  string    `db:"event_type"`
	Template   string    `db:"template"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
