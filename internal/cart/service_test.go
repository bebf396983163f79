package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/internal/products"
	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	productsTable := `
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
	variantsTable := `
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
	cartTable := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(productsTable).Error)
	require.NoError(t, db.Exec(variantsTable).Error)
	require.NoError(t, db.Exec(cartTable).Error)
	return db
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), products.NewRepository(db, products.CategoryMatchFuzzy))
	require.NoError(t, err)
	return svc
}

func seedCartProduct(t *testing.T, db *gorm.DB, price int64, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Slug:          uuid.NewString(),
		Name:          "Cart Product",
		Price:         decimal.NewFromInt(price),
		CategorySlug:  "misc",
		CategoryName:  "Misc",
		StockQuantity: 10,
		InStock:       true,
		IsActive:      active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCartVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, price *decimal.Decimal) *models.ProductVariant {
	t.Helper()

	variant := &models.ProductVariant{
		ID:            uuid.New(),
		ProductID:     productID,
		Name:          "Size",
		Value:         "L",
		Price:         price,
		StockQuantity: 5,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func TestAddCreatesLineAndMergesDuplicates(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	userID := uuid.New()
	product := seedCartProduct(t, db, 30, true)

	item, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// same product again merges instead of duplicating
	item, err = svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	summary, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, "150", summary.Subtotal.String())
}

func TestAddKeepsVariantLinesSeparate(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	userID := uuid.New()
	product := seedCartProduct(t, db, 30, true)
	override := decimal.NewFromInt(35)
	variant := seedCartVariant(t, db, product.ID, &override)

	_, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	require.NoError(t, err)

	summary, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	// 30 + 35 variant override
	assert.Equal(t, "65", summary.Subtotal.String())
}

func TestAddRejectsBadInput(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	userID := uuid.New()
	product := seedCartProduct(t, db, 30, true)
	inactive := seedCartProduct(t, db, 30, false)

	_, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 0})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: inactive.ID, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: uuid.New(), Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	foreign := uuid.New()
	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, VariantID: &foreign, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddRejectsOutOfStockProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	userID := uuid.New()
	product := seedCartProduct(t, db, 30, true)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("in_stock", false).Error)

	_, err := svc.Add(context.Background(), userID, AddInput{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Equal(t, "Product is out of stock", pkgerrors.As(err).Message())

	summary, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestUpdateQuantityAndRemoveScopeToOwner(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	owner := uuid.New()
	stranger := uuid.New()
	product := seedCartProduct(t, db, 20, true)

	item, err := svc.Add(context.Background(), owner, AddInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(context.Background(), owner, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateQuantity(context.Background(), stranger, item.ID, 2)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Remove(context.Background(), stranger, item.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, svc.Remove(context.Background(), owner, item.ID))

	summary, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestUpdateQuantityRejectsZero(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), uuid.New(), 0)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestClearRemovesAllLines(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	userID := uuid.New()
	first := seedCartProduct(t, db, 10, true)
	second := seedCartProduct(t, db, 20, true)

	_, err := svc.Add(context.Background(), userID, AddInput{ProductID: first.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, AddInput{ProductID: second.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), userID))

	summary, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.Subtotal.IsZero())
}
