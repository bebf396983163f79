// Package stock guards product and variant inventory counters. Reservations
// run as conditional single-statement updates so two concurrent checkouts can
// never both claim the last unit.
package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

// Manager reserves and releases inventory inside a caller-owned transaction.
type Manager interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
	Available(ctx context.Context, db *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (int, error)
}

type manager struct{}

// NewManager exposes the default inventory implementation.
func NewManager() Manager {
	return manager{}
}

// Reserve decrements stock if and only if enough remains. Product-level
// reservations also require the in_stock flag, so units an operator pulled
// from sale cannot be checked out. A zero-row update means another checkout
// won the race, the quantity was never there, or the product is flagged out
// of stock; all surface as the same insufficient-stock conflict.
func (manager) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reserve")
	}

	if variantID != nil {
		res := tx.WithContext(ctx).Exec(`
			UPDATE product_variants
			SET stock_quantity = stock_quantity - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND product_id = ? AND stock_quantity >= ?
		`, qty, *variantID, productID, qty)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve variant stock")
		}
		if res.RowsAffected == 0 {
			return insufficientStock(productID, variantID)
		}
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
			in_stock = stock_quantity - ? > 0,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND in_stock = TRUE AND stock_quantity >= ?
	`, qty, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve product stock")
	}
	if res.RowsAffected == 0 {
		return insufficientStock(productID, nil)
	}
	return nil
}

// Release returns previously reserved stock, e.g. after a failed payment or
// a cancellation.
func (manager) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock release")
	}

	if variantID != nil {
		res := tx.WithContext(ctx).Exec(`
			UPDATE product_variants
			SET stock_quantity = stock_quantity + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND product_id = ?
		`, qty, *variantID, productID)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release variant stock")
		}
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?,
			in_stock = TRUE,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release product stock")
	}
	return nil
}

// Available reads the current counter without locking. Callers must not use
// it to decide a reservation; Reserve is the only authority.
func (manager) Available(ctx context.Context, db *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	if db == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "db required for stock read")
	}

	if variantID != nil {
		var variant models.ProductVariant
		err := db.WithContext(ctx).
			Select("stock_quantity").
			Where("id = ? AND product_id = ?", *variantID, productID).
			First(&variant).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read variant stock")
		}
		return variant.StockQuantity, nil
	}

	var product models.Product
	err := db.WithContext(ctx).
		Select("stock_quantity").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product stock")
	}
	return product.StockQuantity, nil
}

func insufficientStock(productID uuid.UUID, variantID *uuid.UUID) error {
	msg := fmt.Sprintf("insufficient stock for product %s", productID)
	if variantID != nil {
		msg = fmt.Sprintf("insufficient stock for variant %s", *variantID)
	}
	return pkgerrors.New(pkgerrors.CodeConflict, msg)
}
