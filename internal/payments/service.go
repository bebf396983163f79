package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// Method describes one payment method offered at checkout.
type Method struct {
	ID      enums.PaymentMethod `json:"id"`
	Name    string              `json:"name"`
	Enabled bool                `json:"enabled"`
}

// HistoryEntry is one settled charge in a user's payment history.
type HistoryEntry struct {
	OrderID         uuid.UUID           `json:"order_id"`
	OrderNumber     string              `json:"order_number"`
	Amount          decimal.Decimal     `json:"amount"`
	Currency        enums.Currency      `json:"currency"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	PaymentIntentID *string             `json:"payment_intent_id,omitempty"`
	PaidAt          string              `json:"paid_at"`
}

// Service exposes payment operations outside the order workflow.
type Service interface {
	Methods(ctx context.Context) []Method
	History(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]HistoryEntry, pagination.Meta, error)
	Refund(ctx context.Context, orderID uuid.UUID, amount *decimal.Decimal) (*Refund, error)
}

type orderFinder interface {
	FindByIDAny(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListPaidByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, paymentIntentID *string) error
}

type service struct {
	gateway Gateway
	orders  orderFinder
	logg    *logger.Logger
}

// NewService builds a payments service with the required dependencies.
func NewService(gateway Gateway, orders orderFinder, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gateway, orders: orders, logg: logg}, nil
}

func (s *service) Methods(ctx context.Context) []Method {
	return []Method{
		{ID: enums.PaymentMethodCard, Name: "Credit / Debit Card", Enabled: true},
		{ID: enums.PaymentMethodPaypal, Name: "PayPal", Enabled: false},
	}
}

func (s *service) History(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]HistoryEntry, pagination.Meta, error) {
	orders, total, err := s.orders.ListPaidByUser(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment history")
	}

	entries := make([]HistoryEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, HistoryEntry{
			OrderID:         order.ID,
			OrderNumber:     order.OrderNumber,
			Amount:          order.TotalAmount,
			Currency:        order.Currency,
			PaymentMethod:   order.PaymentMethod,
			PaymentStatus:   order.PaymentStatus,
			PaymentIntentID: order.PaymentIntentID,
			PaidAt:          order.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return entries, params.MetaFor(total), nil
}

// Refund issues a gateway refund for a paid order and marks it refunded.
// Admin-only at the HTTP layer.
func (s *service) Refund(ctx context.Context, orderID uuid.UUID, amount *decimal.Decimal) (*Refund, error) {
	order, err := s.orders.FindByIDAny(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order is not paid")
	}
	if order.PaymentIntentID == nil || *order.PaymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order has no payment intent")
	}
	if amount != nil && (amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(order.TotalAmount)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive and not exceed the order total")
	}

	result, err := s.gateway.CreateRefund(ctx, *order.PaymentIntentID, amount)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusRefunded, order.PaymentIntentID); err != nil {
		// the money moved; surface the inconsistency loudly but keep the refund result
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.OrderNumber), "refund issued but order not marked refunded", err)
	}
	return result, nil
}
