package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

// StockKeeper reserves and releases per-size stock inside a checkout
// transaction.
type StockKeeper interface {
	Reserve(ctx context.Context, tx *gorm.DB, sizeID uuid.UUID, qty int) (bool, error)
	Release(ctx context.Context, tx *gorm.DB, sizeID uuid.UUID, qty int) error
}

type stockKeeperImpl struct{}

// NewStockKeeper exposes the default stock keeper implementation.
func NewStockKeeper() StockKeeper {
	return stockKeeperImpl{}
}

// Reserve decrements stock only when enough remains. The boolean reports
// whether the conditional write matched a row.
func (stockKeeperImpl) Reserve(ctx context.Context, tx *gorm.DB, sizeID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return true, nil
	}
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reservation")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE product_sizes
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, sizeID, qty)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
	}
	return res.RowsAffected > 0, nil
}

func (stockKeeperImpl) Release(ctx context.Context, tx *gorm.DB, sizeID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock release")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE product_sizes
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, sizeID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release stock")
	}
	return nil
}
