package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for saved addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	FindByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, addr *models.Address) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}
