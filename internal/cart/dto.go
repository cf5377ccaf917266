package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput adds a product (optionally a specific size) to the cart.
type AddItemInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	ProductSizeID *uuid.UUID
	Qty           int
}

// UpdateItemInput changes the quantity of an existing cart line.
type UpdateItemInput struct {
	UserID uuid.UUID
	ItemID uuid.UUID
	Qty    int
}

// ItemView is one cart line with its product snapshot.
type ItemView struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductSizeID *uuid.UUID      `json:"product_size_id,omitempty"`
	Name          string          `json:"name"`
	SizeLabel     *string         `json:"size_label,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Qty           int             `json:"qty"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// View is the full cart with its computed subtotal.
type View struct {
	Items    []ItemView      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
