package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/internal/catalog"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

const maxLineQty = 50

// Service owns the signed-in user's cart.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, input AddItemInput) (*View, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*View, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
}

// NewService builds the cart service.
func NewService(repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalog: catalogRepo}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildView(ctx, items)
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*View, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty <= 0 || input.Qty > maxLineQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", maxLineQty))
	}

	product, err := s.catalog.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available")
	}
	if input.ProductSizeID != nil {
		if sizeOf(product, *input.ProductSizeID) == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product size not found")
		}
	}

	existing, err := s.repo.FindLine(ctx, input.UserID, input.ProductID, input.ProductSizeID)
	switch {
	case err == nil:
		newQty := existing.Qty + input.Qty
		if newQty > maxLineQty {
			newQty = maxLineQty
		}
		if err := s.repo.UpdateQty(ctx, existing.ID, newQty); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:        input.UserID,
			ProductID:     input.ProductID,
			ProductSizeID: input.ProductSizeID,
			Qty:           input.Qty,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	return s.GetCart(ctx, input.UserID)
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*View, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Qty <= 0 || input.Qty > maxLineQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", maxLineQty))
	}

	item, err := s.repo.FindByID(ctx, input.UserID, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if err := s.repo.UpdateQty(ctx, item.ID, input.Qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.GetCart(ctx, input.UserID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) buildView(ctx context.Context, items []models.CartItem) (*View, error) {
	view := &View{Items: make([]ItemView, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		product, err := s.catalog.FindProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product deleted since it was added; skip the stale line.
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		price := product.Price
		var sizeLabel *string
		if item.ProductSizeID != nil {
			size := sizeOf(product, *item.ProductSizeID)
			if size == nil {
				continue
			}
			label := size.Label
			sizeLabel = &label
			if size.PriceOverride != nil {
				price = *size.PriceOverride
			}
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Qty)))
		view.Items = append(view.Items, ItemView{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductSizeID: item.ProductSizeID,
			Name:          product.Name,
			SizeLabel:     sizeLabel,
			UnitPrice:     price,
			Qty:           item.Qty,
			LineTotal:     lineTotal,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	return view, nil
}

func sizeOf(product *models.Product, sizeID uuid.UUID) *models.ProductSize {
	for i := range product.Sizes {
		if product.Sizes[i].ID == sizeID {
			return &product.Sizes[i]
		}
	}
	return nil
}
