package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/internal/cart"
	"github.com/minimalstore/storefront-api/internal/payments"
	"github.com/minimalstore/storefront-api/internal/pricing"
	"github.com/minimalstore/storefront-api/internal/products"
	"github.com/minimalstore/storefront-api/internal/stock"
	"github.com/minimalstore/storefront-api/pkg/config"
	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/pagination"
	"github.com/minimalstore/storefront-api/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  price NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_intent_id TEXT,
  subtotal NUMERIC NOT NULL,
  tax_amount NUMERIC NOT NULL,
  shipping_amount NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  shipping_address TEXT NOT NULL,
  billing_address TEXT,
  payment_method TEXT NOT NULL DEFAULT 'card',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  product_snapshot TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type stubGateway struct {
	createErr error
	intents   map[string]*payments.Intent
	created   int
}

func (g *stubGateway) CreateIntent(_ context.Context, input payments.CreateIntentInput) (*payments.Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created++
	intent := &payments.Intent{
		ID:           fmt.Sprintf("pi_test_%d", g.created),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", g.created),
		Status:       "requires_payment_method",
		Amount:       payments.MinorUnits(input.Amount),
		Currency:     input.Currency,
		OrderID:      input.OrderID.String(),
	}
	if g.intents == nil {
		g.intents = map[string]*payments.Intent{}
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *stubGateway) RetrieveIntent(_ context.Context, intentID string) (*payments.Intent, error) {
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "intent not found")
	}
	return intent, nil
}

type stubNotifier struct {
	confirmations   int
	paymentMails    int
	statusMails     int
	lastOrderNumber string
}

func (n *stubNotifier) OrderConfirmation(_ context.Context, _ *models.Profile, order *models.Order) {
	n.confirmations++
	n.lastOrderNumber = order.OrderNumber
}

func (n *stubNotifier) PaymentConfirmation(_ context.Context, _ *models.Profile, _ *models.Order) {
	n.paymentMails++
}

func (n *stubNotifier) OrderStatusUpdate(_ context.Context, _ *models.Profile, _ *models.Order) {
	n.statusMails++
}

type stubProfiles struct{}

func (stubProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	return &models.Profile{ID: id, Email: "shopper@example.com"}, nil
}

type orderFixture struct {
	svc      Service
	cartSvc  cart.Service
	db       *gorm.DB
	gateway  *stubGateway
	notifier *stubNotifier
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := setupOrdersTestDB(t)
	calc, err := pricing.NewCalculator(config.PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(100),
		TaxRate:               decimal.NewFromFloat(0.08),
		DefaultShippingRate:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	cartRepo := cart.NewRepository(db)
	cartSvc, err := cart.NewService(cartRepo, products.NewRepository(db, products.CategoryMatchFuzzy))
	require.NoError(t, err)

	gateway := &stubGateway{}
	notifier := &stubNotifier{}

	svc, err := NewService(ServiceParams{
		Repo:              NewRepository(db),
		TransactionRunner: testTxRunner{db: db},
		CartRepo:          cartRepo,
		CartService:       cartSvc,
		Stock:             stock.NewManager(),
		Pricing:           calc,
		Gateway:           gateway,
		Profiles:          stubProfiles{},
		Notifier:          notifier,
		Logger:            logger.New(logger.Options{ServiceName: "orders-test"}),
		Currency:          enums.CurrencyUSD,
	})
	require.NoError(t, err)

	return &orderFixture{svc: svc, cartSvc: cartSvc, db: db, gateway: gateway, notifier: notifier}
}

func seedOrderProduct(t *testing.T, db *gorm.DB, name string, price int64, qty int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Slug:          uuid.NewString(),
		Name:          name,
		Price:         decimal.NewFromInt(price),
		CategorySlug:  "misc",
		CategoryName:  "Misc",
		StockQuantity: qty,
		InStock:       qty > 0,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func testAddress() types.Address {
	return types.Address{
		FullName:   "Test Shopper",
		Line1:      "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
	}
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Where("id = ?", id).First(&product).Error)
	return product.StockQuantity
}

func TestCreateBuildsOrderFromCart(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := seedOrderProduct(t, fx.db, "Desk Lamp", 55, 10)

	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.NoError(t, err)

	// 110 subtotal clears the free shipping threshold
	assert.Equal(t, "110", order.Subtotal.String())
	assert.True(t, order.ShippingAmount.IsZero())
	assert.Equal(t, "8.8", order.TaxAmount.String())
	assert.Equal(t, "118.8", order.TotalAmount.String())
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Regexp(t, `^ORD-\d+-[0-9A-Z]{5}$`, order.OrderNumber)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Desk Lamp", order.Items[0].ProductSnapshot.Name)
	assert.Equal(t, "110", order.Items[0].TotalPrice.String())

	assert.Equal(t, 8, productStock(t, fx.db, product.ID))

	summary, err := fx.cartSvc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	assert.Equal(t, 1, fx.notifier.confirmations)
	assert.Equal(t, order.OrderNumber, fx.notifier.lastOrderNumber)
}

func TestCreateChargesShippingBelowThreshold(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	product := seedOrderProduct(t, fx.db, "Notebook", 40, 10)

	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.NoError(t, err)

	assert.Equal(t, "80", order.Subtotal.String())
	assert.Equal(t, "10", order.ShippingAmount.String())
	assert.Equal(t, "6.4", order.TaxAmount.String())
	assert.Equal(t, "96.4", order.TotalAmount.String())
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreateInput{ShippingAddress: testAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Cart is empty")
}

func TestCreateRejectsMissingAddress(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreateInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateFailsOnInsufficientStock(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	scarce := seedOrderProduct(t, fx.db, "Rare Print", 60, 1)

	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: scarce.ID, Quantity: 1})
	require.NoError(t, err)
	// bump quantity past available stock
	summary, err := fx.cartSvc.List(context.Background(), userID)
	require.NoError(t, err)
	_, err = fx.cartSvc.UpdateQuantity(context.Background(), userID, summary.Items[0].ID, 2)
	require.NoError(t, err)

	_, err = fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Insufficient stock for Rare Print")

	assert.Equal(t, 1, productStock(t, fx.db, scarce.ID))

	var count int64
	require.NoError(t, fx.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	summary, err = fx.cartSvc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCreateRollsBackFirstLineWhenSecondFails(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	plenty := seedOrderProduct(t, fx.db, "Common Mug", 15, 10)
	scarce := seedOrderProduct(t, fx.db, "Limited Mug", 25, 1)

	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: plenty.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: scarce.ID, Quantity: 1})
	require.NoError(t, err)
	summary, err := fx.cartSvc.List(context.Background(), userID)
	require.NoError(t, err)
	for _, item := range summary.Items {
		if item.ProductID == scarce.ID {
			_, err = fx.cartSvc.UpdateQuantity(context.Background(), userID, item.ID, 3)
			require.NoError(t, err)
		}
	}

	_, err = fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	// the successful first reservation must roll back with the transaction
	assert.Equal(t, 10, productStock(t, fx.db, plenty.ID))
	assert.Equal(t, 1, productStock(t, fx.db, scarce.ID))
}

func createTestOrder(t *testing.T, fx *orderFixture, userID uuid.UUID, price int64, qty int) *models.Order {
	t.Helper()

	product := seedOrderProduct(t, fx.db, "Fixture Product", price, 10)
	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: product.ID, Quantity: qty})
	require.NoError(t, err)

	order, err := fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.NoError(t, err)
	return order
}

func TestProcessPaymentCreatesIntentAndConfirms(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	session, err := fx.svc.ProcessPayment(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, session.OrderID)
	assert.NotEmpty(t, session.PaymentIntentID)
	assert.NotEmpty(t, session.ClientSecret)
	assert.True(t, session.Amount.Equal(order.TotalAmount))

	stored, err := fx.svc.Get(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, stored.Status)
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, session.PaymentIntentID, *stored.PaymentIntentID)
}

func TestProcessPaymentRejectsPaidOrder(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("payment_status", enums.PaymentStatusPaid).Error)

	_, err := fx.svc.ProcessPayment(context.Background(), order.ID, userID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Order is already paid")
}

func TestProcessPaymentScopesToOwner(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	_, err := fx.svc.ProcessPayment(context.Background(), order.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestConfirmPaymentAdvancesToProcessing(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	session, err := fx.svc.ProcessPayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	fx.gateway.intents[session.PaymentIntentID].Status = payments.IntentStatusSucceeded

	confirmed, err := fx.svc.ConfirmPayment(context.Background(), session.PaymentIntentID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, confirmed.Status)
	assert.Equal(t, 1, fx.notifier.paymentMails)
}

func TestConfirmPaymentRejectsUnsettledIntent(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	session, err := fx.svc.ProcessPayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	_, err = fx.svc.ConfirmPayment(context.Background(), session.PaymentIntentID, userID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Payment not successful")
}

func TestCancelRestoresStock(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 2)
	productID := order.Items[0].ProductID

	assert.Equal(t, 8, productStock(t, fx.db, productID))

	cancelled, err := fx.svc.Cancel(context.Background(), order.ID, userID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, productStock(t, fx.db, productID))

	// cancelling again is a no-op
	again, err := fx.svc.Cancel(context.Background(), order.ID, userID, "")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, again.Status)
	assert.Equal(t, 10, productStock(t, fx.db, productID))
}

func TestCancelRejectsShippedOrder(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 2)
	productID := order.Items[0].ProductID

	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", enums.OrderStatusShipped).Error)

	_, err := fx.svc.Cancel(context.Background(), order.ID, userID, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Cannot cancel shipped or delivered orders")

	// nothing moved
	assert.Equal(t, 8, productStock(t, fx.db, productID))
	stored, err := fx.svc.Get(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)
}

func TestUpdateStatusSendsMailAndValidates(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	updated, err := fx.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, 1, fx.notifier.statusMails)

	_, err = fx.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatus("teleported"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestTrackBuildsTimeline(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", enums.OrderStatusProcessing).Error)

	tracking, err := fx.svc.Track(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, tracking.Status)
	require.Len(t, tracking.Steps, 5)

	assert.True(t, tracking.Steps[0].Completed)  // pending
	assert.True(t, tracking.Steps[1].Completed)  // confirmed
	assert.True(t, tracking.Steps[2].Completed)  // processing
	assert.True(t, tracking.Steps[2].Current)
	assert.False(t, tracking.Steps[3].Completed) // shipped
	assert.False(t, tracking.Steps[4].Completed) // delivered
}

func TestTrackCancelledOrder(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()
	order := createTestOrder(t, fx, userID, 50, 1)

	_, err := fx.svc.Cancel(context.Background(), order.ID, userID, "")
	require.NoError(t, err)

	tracking, err := fx.svc.Track(context.Background(), order.ID, userID)
	require.NoError(t, err)
	require.Len(t, tracking.Steps, 1)
	assert.Equal(t, enums.OrderStatusCancelled, tracking.Steps[0].Status)
}

func TestReorderSkipsUnavailableProducts(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()

	keep := seedOrderProduct(t, fx.db, "Still Sold", 20, 10)
	gone := seedOrderProduct(t, fx.db, "Discontinued", 30, 10)
	pulled := seedOrderProduct(t, fx.db, "Pulled From Sale", 25, 10)

	_, err := fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: keep.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: gone.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = fx.cartSvc.Add(context.Background(), userID, cart.AddInput{ProductID: pulled.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := fx.svc.Create(context.Background(), userID, CreateInput{ShippingAddress: testAddress()})
	require.NoError(t, err)

	require.NoError(t, fx.db.Model(&models.Product{}).
		Where("id = ?", gone.ID).
		Update("is_active", false).Error)
	require.NoError(t, fx.db.Model(&models.Product{}).
		Where("id = ?", pulled.ID).
		Update("in_stock", false).Error)

	result, err := fx.svc.Reorder(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AddedItems)
	assert.ElementsMatch(t, []string{"Discontinued", "Pulled From Sale"}, result.SkippedItems)

	summary, err := fx.cartSvc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, keep.ID, summary.Items[0].ProductID)
}

func TestSummaryCountsAndSpend(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()

	first := createTestOrder(t, fx, userID, 50, 1)
	second := createTestOrder(t, fx, userID, 40, 1)
	_ = second

	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", first.ID).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPaid,
			"status":         enums.OrderStatusDelivered,
		}).Error)

	summary, err := fx.svc.Summary(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, int64(1), summary.CountsByStatus[enums.OrderStatusDelivered])
	assert.Equal(t, int64(1), summary.CountsByStatus[enums.OrderStatusPending])
	assert.True(t, summary.TotalSpent.Equal(first.TotalAmount))
}

func TestListFiltersByStatus(t *testing.T) {
	fx := newOrderFixture(t)
	userID := uuid.New()

	first := createTestOrder(t, fx, userID, 50, 1)
	createTestOrder(t, fx, userID, 40, 1)

	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", first.ID).
		Update("status", enums.OrderStatusShipped).Error)

	shipped := enums.OrderStatusShipped
	orders, meta, err := fx.svc.List(context.Background(), userID,
		pagination.Sanitize(1, 10), ListFilters{Status: &shipped})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, int64(1), meta.Total)
}
