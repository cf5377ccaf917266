package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/enums"
)

// SystemActor is recorded as UpdatedBy when a transition was not driven by a
// signed-in user (payment gateway callbacks, background jobs).
const SystemActor = "system"

// OrderStatusLog is the append-only audit trail of order transitions.
// Rows are never mutated or deleted.
type OrderStatusLog struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Notes     *string           `gorm:"column:notes"`
	UpdatedBy string            `gorm:"column:updated_by;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
