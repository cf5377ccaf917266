package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
)

// Service exposes the public catalog reads.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	ListSchools(ctx context.Context) ([]SchoolSummary, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	detail := &ProductDetail{
		ProductSummary: ProductSummary{
			ID:         product.ID,
			CategoryID: product.CategoryID,
			SchoolID:   product.SchoolID,
			Name:       product.Name,
			Price:      product.Price,
			ImageURL:   product.ImageURL,
			CreatedAt:  product.CreatedAt,
		},
		Description: product.Description,
		Sizes:       make([]SizeSummary, 0, len(product.Sizes)),
	}
	for _, size := range product.Sizes {
		price := product.Price
		if size.PriceOverride != nil {
			price = *size.PriceOverride
		}
		detail.Sizes = append(detail.Sizes, SizeSummary{
			ID:    size.ID,
			Label: size.Label,
			Price: price,
			Stock: size.Stock,
		})
	}
	return detail, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return out, nil
}

func (s *service) ListSchools(ctx context.Context) ([]SchoolSummary, error) {
	out, err := s.repo.ListSchools(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schools")
	}
	return out, nil
}
