package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolkart/storefront-backend/pkg/enums"
	"github.com/schoolkart/storefront-backend/pkg/types"
)

// Order is the storefront order aggregate. UserID is nil for guest checkout.
// GatewayOrderID is set once a payment intent exists; a new payment attempt
// replaces it. Orders are never deleted: cancellation is a status value.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           *uuid.UUID            `gorm:"column:user_id;type:uuid;index"`
	Total            decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	Status           enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	GatewayOrderID   *string               `gorm:"column:gateway_order_id;index"`
	GatewayPaymentID *string               `gorm:"column:gateway_payment_id"`
	ShippingAddress  types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	TrackingNumber   *string               `gorm:"column:tracking_number"`
	WarehouseNotes   *string               `gorm:"column:warehouse_notes"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusLogs       []OrderStatusLog      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
