package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/internal/cart"
	"github.com/minimalstore/storefront-api/internal/payments"
	"github.com/minimalstore/storefront-api/internal/pricing"
	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/pagination"
	"github.com/minimalstore/storefront-api/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockManager interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
}

type cartAccessor interface {
	WithTx(tx *gorm.DB) cart.Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type cartAdder interface {
	Add(ctx context.Context, userID uuid.UUID, input cart.AddInput) (*models.CartItem, error)
}

type paymentGateway interface {
	CreateIntent(ctx context.Context, input payments.CreateIntentInput) (*payments.Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*payments.Intent, error)
}

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type notifier interface {
	OrderConfirmation(ctx context.Context, profile *models.Profile, order *models.Order)
	PaymentConfirmation(ctx context.Context, profile *models.Profile, order *models.Order)
	OrderStatusUpdate(ctx context.Context, profile *models.Profile, order *models.Order)
}

// Service is the checkout and order lifecycle workflow.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, pagination.Meta, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Track(ctx context.Context, orderID, userID uuid.UUID) (*Tracking, error)
	ProcessPayment(ctx context.Context, orderID, userID uuid.UUID) (*PaymentSession, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string, userID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, orderID, userID uuid.UUID, reason string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Reorder(ctx context.Context, orderID, userID uuid.UUID) (*ReorderResult, error)
}

// ServiceParams collects the workflow dependencies.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
	CartRepo          cartAccessor
	CartService       cartAdder
	Stock             stockManager
	Pricing           *pricing.Calculator
	Gateway           paymentGateway
	Profiles          profileFinder
	Notifier          notifier
	Logger            *logger.Logger
	Currency          enums.Currency
}

type service struct {
	repo     Repository
	tx       txRunner
	cartRepo cartAccessor
	cartSvc  cartAdder
	stock    stockManager
	calc     *pricing.Calculator
	gateway  paymentGateway
	profiles profileFinder
	notify   notifier
	logg     *logger.Logger
	currency enums.Currency
}

// NewService builds the order workflow with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.CartService == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock manager required")
	}
	if params.Pricing == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile finder required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := params.Currency
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}
	return &service{
		repo:     params.Repo,
		tx:       params.TransactionRunner,
		cartRepo: params.CartRepo,
		cartSvc:  params.CartService,
		stock:    params.Stock,
		calc:     params.Pricing,
		gateway:  params.Gateway,
		profiles: params.Profiles,
		notify:   params.Notifier,
		logg:     params.Logger,
		currency: currency,
	}, nil
}

// Create turns the user's cart into an order: validate lines, price them,
// then persist order + items, reserve stock, and clear the cart in one
// transaction. The confirmation email goes out only after commit.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ShippingAddress.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCard
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(cartItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty")
	}

	lines := make([]pricing.Line, 0, len(cartItems))
	for _, item := range cartItems {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Product in cart is no longer available")
		}
		if !item.Product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("Product %s is no longer available", item.Product.Name))
		}
		lines = append(lines, pricing.Line{UnitPrice: unitPriceFor(item), Quantity: item.Quantity})
	}

	totals, err := s.calc.Totals(lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     GenerateOrderNumber(now),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.Tax,
		ShippingAmount:  totals.Shipping,
		TotalAmount:     totals.Total,
		Currency:        s.currency,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   method,
		Notes:           input.Notes,
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		unitPrice := unitPriceFor(cartItem)
		items = append(items, models.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       cartItem.ProductID,
			VariantID:       cartItem.VariantID,
			Quantity:        cartItem.Quantity,
			UnitPrice:       unitPrice,
			TotalPrice:      pricing.LineTotal(unitPrice, cartItem.Quantity),
			ProductSnapshot: snapshotFor(cartItem),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, cartItem := range cartItems {
			if err := s.stock.Reserve(ctx, tx, cartItem.ProductID, cartItem.VariantID, cartItem.Quantity); err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("Insufficient stock for %s", cartItem.Product.Name))
				}
				return err
			}
		}

		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		if err := s.cartRepo.WithTx(tx).ClearUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "order created")
	s.sendMail(ctx, userID, func(profile *models.Profile) {
		s.notify.OrderConfirmation(ctx, profile, order)
	})

	return order, nil
}

func (s *service) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	return s.findOwned(ctx, orderID, userID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, pagination.Meta, error) {
	orders, total, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, params.MetaFor(total), nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	summary, err := s.repo.Summary(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize orders")
	}
	return summary, nil
}

var trackTimeline = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusConfirmed,
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

func (s *service) Track(ctx context.Context, orderID, userID uuid.UUID) (*Tracking, error) {
	order, err := s.findOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	tracking := &Tracking{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		UpdatedAt:     order.UpdatedAt,
	}

	if order.Status == enums.OrderStatusCancelled {
		tracking.Steps = []TrackStep{{Status: enums.OrderStatusCancelled, Completed: true, Current: true}}
		return tracking, nil
	}

	reached := true
	for _, status := range trackTimeline {
		current := status == order.Status
		tracking.Steps = append(tracking.Steps, TrackStep{
			Status:    status,
			Completed: reached,
			Current:   current,
		})
		if current {
			reached = false
		}
	}
	return tracking, nil
}

// ProcessPayment opens a gateway intent for a pending order and moves it to
// confirmed. The client completes the charge with the returned secret.
func (s *service) ProcessPayment(ctx context.Context, orderID, userID uuid.UUID) (*PaymentSession, error) {
	order, err := s.findOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order is already paid")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order is cancelled")
	}

	intent, err := s.gateway.CreateIntent(ctx, payments.CreateIntentInput{
		Amount:      order.TotalAmount,
		Currency:    string(order.Currency),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPending, &intent.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach payment intent")
	}
	if order.Status == enums.OrderStatusPending {
		if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}
	}

	s.logg.Info(s.logg.WithOrderNumber(ctx, order.OrderNumber), "payment intent created")

	return &PaymentSession{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          order.TotalAmount,
		Currency:        order.Currency,
	}, nil
}

// ConfirmPayment is the client-side completion hook: it verifies the intent
// actually succeeded at the gateway before advancing the order. The webhook
// remains the authority for marking the order paid.
func (s *service) ConfirmPayment(ctx context.Context, paymentIntentID string, userID uuid.UUID) (*models.Order, error) {
	if paymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	intent, err := s.gateway.RetrieveIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Payment not successful")
	}

	order, err := s.repo.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}

	if order.Status == enums.OrderStatusPending || order.Status == enums.OrderStatusConfirmed {
		if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order status")
		}
		order.Status = enums.OrderStatusProcessing
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "payment confirmed by client")
	s.sendMail(ctx, userID, func(profile *models.Profile) {
		s.notify.PaymentConfirmation(ctx, profile, order)
	})

	return order, nil
}

// Cancel stops an order that has not shipped. Stock returns to the shelf in
// the same transaction. Paid orders are flagged for a manual refund; money
// never moves automatically here.
func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID, reason string) (*models.Order, error) {
	order, err := s.findOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return order, nil
	}
	if !order.Status.IsCancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Cannot cancel shipped or delivered orders")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := s.stock.Release(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = enums.OrderStatusCancelled

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	if reason != "" {
		ctx = s.logg.WithField(ctx, "reason", reason)
	}
	s.logg.Info(ctx, "order cancelled")
	if order.PaymentStatus == enums.PaymentStatusPaid {
		s.logg.Warn(ctx, "Refund needed for cancelled paid order")
	}

	return order, nil
}

// UpdateStatus is the admin overwrite; it does not police transitions.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByIDAny(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, fmt.Sprintf("order status set to %s", status))
	s.sendMail(ctx, order.UserID, func(profile *models.Profile) {
		s.notify.OrderStatusUpdate(ctx, profile, order)
	})

	return order, nil
}

// Reorder copies a past order's lines back into the cart. Lines whose
// product has since vanished are skipped, not failed.
func (s *service) Reorder(ctx context.Context, orderID, userID uuid.UUID) (*ReorderResult, error) {
	order, err := s.findOwned(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	result := &ReorderResult{}
	for _, item := range order.Items {
		_, err := s.cartSvc.Add(ctx, userID, cart.AddInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil &&
				(typed.Code() == pkgerrors.CodeNotFound ||
					typed.Code() == pkgerrors.CodeValidation ||
					typed.Code() == pkgerrors.CodeConflict) {
				result.SkippedItems = append(result.SkippedItems, item.ProductSnapshot.Name)
				continue
			}
			return nil, err
		}
		result.AddedItems++
	}
	return result, nil
}

func (s *service) findOwned(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// sendMail loads the profile and hands off to the dispatcher. Lookup
// failures only cost the email.
func (s *service) sendMail(ctx context.Context, userID uuid.UUID, dispatch func(*models.Profile)) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("profile lookup for email failed: %v", err))
		return
	}
	dispatch(profile)
}

func unitPriceFor(item models.CartItem) decimal.Decimal {
	if item.Variant != nil && item.Variant.Price != nil {
		return *item.Variant.Price
	}
	if item.Product != nil {
		return item.Product.Price
	}
	return decimal.Zero
}

func snapshotFor(item models.CartItem) types.ProductSnapshot {
	snapshot := types.ProductSnapshot{}
	if item.Product != nil {
		snapshot.Name = item.Product.Name
		if item.Product.Description != nil {
			snapshot.Description = *item.Product.Description
		}
		snapshot.Image = item.Product.PrimaryImage()
		snapshot.Category = item.Product.CategoryName
	}
	if item.Variant != nil {
		variantName := fmt.Sprintf("%s: %s", item.Variant.Name, item.Variant.Value)
		snapshot.VariantName = &variantName
	}
	return snapshot
}
