package address

import (
	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/types"
)

// SaveInput creates or updates a saved address. AddressID nil means create.
type SaveInput struct {
	UserID      uuid.UUID
	AddressID   *uuid.UUID
	Address     types.ShippingAddress
	MakeDefault bool
}
