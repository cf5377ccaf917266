package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolkart/storefront-backend/pkg/enums"
)

// InitiatePaymentInput carries the checkout payment request.
type InitiatePaymentInput struct {
	OrderID  uuid.UUID
	Amount   decimal.Decimal
	Currency string
	// ActorUserID is nil for guest orders.
	ActorUserID *uuid.UUID
}

// PaymentIntent is returned to the client so it can complete payment with the
// gateway's browser SDK.
type PaymentIntent struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	AmountMinor    int64     `json:"amount"`
	Currency       string    `json:"currency"`
	KeyID          string    `json:"key_id"`
}

// ConfirmPaymentInput is the gateway's signed confirmation callback payload.
type ConfirmPaymentInput struct {
	OrderID          uuid.UUID
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// PaymentFailureInput records a client- or gateway-reported payment failure.
type PaymentFailureInput struct {
	OrderID     uuid.UUID
	Description *string
}

// SetStatusInput is the warehouse/admin fulfillment override.
type SetStatusInput struct {
	OrderID        uuid.UUID
	Status         string
	TrackingNumber *string
	Notes          *string
	// ActorEmail is stamped on the audit row.
	ActorEmail string
}

// OrderFilters describe the inputs supported by the admin order list.
type OrderFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

// OrderItemSummary is one purchased line in an order view.
type OrderItemSummary struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SizeLabel *string         `json:"size_label,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
}

// OrderSummary is the list-view shape for buyer and admin listings.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	Total         decimal.Decimal     `json:"total"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalItems    int                 `json:"total_items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StatusLogEntry is one audit row in the order detail view.
type StatusLogEntry struct {
	Status    enums.OrderStatus `json:"status"`
	Notes     *string           `json:"notes,omitempty"`
	UpdatedBy string            `json:"updated_by"`
	CreatedAt time.Time         `json:"created_at"`
}
