package checkout

import (
	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/types"
)

// GuestItem is one requested line for guest checkout, where no DB cart exists.
type GuestItem struct {
	ProductID     uuid.UUID  `json:"product_id"`
	ProductSizeID *uuid.UUID `json:"product_size_id,omitempty"`
	Qty           int        `json:"qty"`
}

// Input creates an order. UserID nil means guest checkout and Items must be
// provided; signed-in checkout reads the user's cart instead.
type Input struct {
	UserID          *uuid.UUID
	Items           []GuestItem
	ShippingAddress types.ShippingAddress
}

// CancelInput cancels an order and restores its reserved stock.
type CancelInput struct {
	OrderID     uuid.UUID
	ActorUserID *uuid.UUID
	ActorEmail  string
	Privileged  bool
}
