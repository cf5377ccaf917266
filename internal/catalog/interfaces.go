package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
)

// Repository defines read operations over the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	ListSchools(ctx context.Context) ([]SchoolSummary, error)
}
