package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  compare_at_price NUMERIC,
  currency TEXT NOT NULL DEFAULT 'USD',
  category_slug TEXT NOT NULL,
  category_name TEXT NOT NULL,
  images TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	variants := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  price NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(variants).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, qty int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Slug:          uuid.NewString(),
		Name:          "Test Product",
		Price:         decimal.NewFromInt(25),
		CategorySlug:  "test",
		CategoryName:  "Test",
		StockQuantity: qty,
		InStock:       qty > 0,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, qty int) *models.ProductVariant {
	t.Helper()

	variant := &models.ProductVariant{
		ID:            uuid.New(),
		ProductID:     productID,
		Name:          "Size",
		Value:         "M",
		StockQuantity: qty,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func TestReserveDecrementsProductStock(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 5)

	require.NoError(t, mgr.Reserve(context.Background(), db, product.ID, nil, 3))

	qty, err := mgr.Available(context.Background(), db, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}

func TestReserveRejectsInsufficientStock(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 2)

	err := mgr.Reserve(context.Background(), db, product.ID, nil, 3)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	// counter untouched after a failed reserve
	qty, err := mgr.Available(context.Background(), db, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}

func TestReserveExactRemainderMarksOutOfStock(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 3)

	require.NoError(t, mgr.Reserve(context.Background(), db, product.ID, nil, 3))

	var reloaded models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&reloaded).Error)
	assert.Equal(t, 0, reloaded.StockQuantity)
	assert.False(t, reloaded.InStock)

	err := mgr.Reserve(context.Background(), db, product.ID, nil, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestReserveRejectsOutOfStockFlag(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 5)

	// operator pulls the product from sale with units still on the counter
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("in_stock", false).Error)

	err := mgr.Reserve(context.Background(), db, product.ID, nil, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	var reloaded models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&reloaded).Error)
	assert.Equal(t, 5, reloaded.StockQuantity)
	assert.False(t, reloaded.InStock)
}

func TestReserveVariantUsesVariantCounter(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 10)
	variant := newVariant(t, db, product.ID, 2)

	require.NoError(t, mgr.Reserve(context.Background(), db, product.ID, &variant.ID, 2))

	qty, err := mgr.Available(context.Background(), db, product.ID, &variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	// product-level counter is untouched by variant reservations
	qty, err = mgr.Available(context.Background(), db, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	err = mgr.Reserve(context.Background(), db, product.ID, &variant.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestReleaseRestoresStock(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()
	product := newProduct(t, db, 3)

	require.NoError(t, mgr.Reserve(context.Background(), db, product.ID, nil, 3))
	require.NoError(t, mgr.Release(context.Background(), db, product.ID, nil, 3))

	var reloaded models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&reloaded).Error)
	assert.Equal(t, 3, reloaded.StockQuantity)
	assert.True(t, reloaded.InStock)
}

func TestReserveValidatesQuantity(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()

	err := mgr.Reserve(context.Background(), db, uuid.New(), nil, 0)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// releasing nothing is a no-op
	assert.NoError(t, mgr.Release(context.Background(), db, uuid.New(), nil, 0))
}

func TestAvailableUnknownProduct(t *testing.T) {
	db := setupStockTestDB(t)
	mgr := NewManager()

	_, err := mgr.Available(context.Background(), db, uuid.New(), nil)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
