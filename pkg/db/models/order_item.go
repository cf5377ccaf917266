package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one purchased line. UnitPrice is the price at time of
// purchase and is never recomputed from the current product price.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductSizeID *uuid.UUID      `gorm:"column:product_size_id;type:uuid"`
	Name          string          `gorm:"column:name;not null"`
	SizeLabel     *string         `gorm:"column:size_label"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Qty           int             `gorm:"column:qty;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
