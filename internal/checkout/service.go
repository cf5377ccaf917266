package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/internal/cart"
	"github.com/schoolkart/storefront-backend/internal/catalog"
	"github.com/schoolkart/storefront-backend/internal/orders"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a cart (or a guest item list) into a pending order, and
// cancels orders while restoring their reserved stock.
type Service interface {
	Checkout(ctx context.Context, input Input) (*models.Order, error)
	CancelOrder(ctx context.Context, input CancelInput) error
}

type service struct {
	orders  orders.Repository
	cart    cart.Repository
	catalog catalog.Repository
	stock   StockKeeper
	tx      txRunner
}

// NewService builds the checkout service with its dependencies.
func NewService(ordersRepo orders.Repository, cartRepo cart.Repository, catalogRepo catalog.Repository, stock StockKeeper, tx txRunner) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:  ordersRepo,
		cart:    cartRepo,
		catalog: catalogRepo,
		stock:   stock,
		tx:      tx,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*models.Order, error) {
	if field, ok := input.ShippingAddress.Validate(); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shipping address missing %s", field))
	}
	if input.UserID == nil && len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest checkout requires items")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		cartRepo := s.cart.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		lines, err := s.resolveLines(ctx, catalogRepo, cartRepo, input)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			// Stock is reserved with a conditional decrement so two
			// concurrent checkouts cannot oversell a size.
			if line.sizeID != nil {
				reserved, err := s.stock.Reserve(ctx, tx, *line.sizeID, line.qty)
				if err != nil {
					return err
				}
				if !reserved {
					return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", line.name))
				}
			}

			items = append(items, models.OrderItem{
				ProductID:     line.productID,
				ProductSizeID: line.sizeID,
				Name:          line.name,
				SizeLabel:     line.sizeLabel,
				UnitPrice:     line.unitPrice,
				Qty:           line.qty,
			})
			total = total.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(line.qty))))
		}

		order := &models.Order{
			UserID:          input.UserID,
			Total:           total,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			ShippingAddress: input.ShippingAddress,
			Items:           items,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if input.UserID != nil {
			if err := cartRepo.Clear(ctx, *input.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) CancelOrder(ctx context.Context, input CancelInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !input.Privileged {
			if input.ActorUserID == nil || order.UserID == nil || *order.UserID != *input.ActorUserID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
			}
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already in a terminal state")
		}
		if order.Status == enums.OrderStatusShipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shipped orders cannot be cancelled")
		}

		if err := ordersRepo.UpdateFulfillment(ctx, order.ID, map[string]any{
			"status": enums.OrderStatusCancelled,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		for _, item := range order.Items {
			if item.ProductSizeID == nil {
				continue
			}
			if err := s.stock.Release(ctx, tx, *item.ProductSizeID, item.Qty); err != nil {
				return err
			}
		}

		actor := input.ActorEmail
		if actor == "" {
			actor = models.SystemActor
		}
		notes := "order cancelled"
		log := &models.OrderStatusLog{
			OrderID:   order.ID,
			Status:    enums.OrderStatusCancelled,
			Notes:     &notes,
			UpdatedBy: actor,
		}
		if err := ordersRepo.AppendStatusLog(ctx, log); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status log")
		}
		return nil
	})
}

type resolvedLine struct {
	productID uuid.UUID
	sizeID    *uuid.UUID
	name      string
	sizeLabel *string
	unitPrice decimal.Decimal
	qty       int
}

func (s *service) resolveLines(ctx context.Context, catalogRepo catalog.Repository, cartRepo cart.Repository, input Input) ([]resolvedLine, error) {
	requested := input.Items
	if input.UserID != nil {
		cartItems, err := cartRepo.ListByUser(ctx, *input.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		requested = make([]GuestItem, 0, len(cartItems))
		for _, item := range cartItems {
			requested = append(requested, GuestItem{
				ProductID:     item.ProductID,
				ProductSizeID: item.ProductSizeID,
				Qty:           item.Qty,
			})
		}
	}

	lines := make([]resolvedLine, 0, len(requested))
	for _, req := range requested {
		if req.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		product, err := catalogRepo.FindProductByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is no longer available", product.Name))
		}

		// Unit price is snapshotted here; later catalog edits never change
		// what was charged.
		price := product.Price
		var sizeLabel *string
		if req.ProductSizeID != nil {
			size := findSize(product, *req.ProductSizeID)
			if size == nil {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product size not found")
			}
			label := size.Label
			sizeLabel = &label
			if size.PriceOverride != nil {
				price = *size.PriceOverride
			}
		}

		lines = append(lines, resolvedLine{
			productID: product.ID,
			sizeID:    req.ProductSizeID,
			name:      product.Name,
			sizeLabel: sizeLabel,
			unitPrice: price,
			qty:       req.Qty,
		})
	}
	return lines, nil
}

func findSize(product *models.Product, sizeID uuid.UUID) *models.ProductSize {
	for i := range product.Sizes {
		if product.Sizes[i].ID == sizeID {
			return &product.Sizes[i]
		}
	}
	return nil
}
