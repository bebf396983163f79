package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/internal/orders"
	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockManager interface {
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
}

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type notifier interface {
	PaymentConfirmation(ctx context.Context, profile *models.Profile, order *models.Order)
}

type ServiceParams struct {
	OrderRepo         orders.Repository
	TransactionRunner txRunner
	Stock             stockManager
	Profiles          profileFinder
	Notifier          notifier
	Logger            *logger.Logger
}

// Service applies gateway events to orders. The webhook, not the client
// callback, is what marks an order paid.
type Service struct {
	orderRepo orders.Repository
	txRunner  txRunner
	stock     stockManager
	profiles  profileFinder
	notify    notifier
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock manager required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile finder required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		orderRepo: params.OrderRepo,
		txRunner:  params.TransactionRunner,
		stock:     params.Stock,
		profiles:  params.Profiles,
		notify:    params.Notifier,
		logg:      params.Logger,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.handlePaymentSucceeded(ctx, intent.ID)
	case stripe.EventTypePaymentIntentPaymentFailed:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.handlePaymentFailed(ctx, intent.ID)
	default:
		return nil
	}
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}
	if intent.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}
	return &intent, nil
}

// handlePaymentSucceeded marks the order paid and advances it to
// processing. Redelivery after the order is already paid is a no-op.
func (s *Service) handlePaymentSucceeded(ctx context.Context, paymentIntentID string) error {
	order, err := s.findOrder(ctx, paymentIntentID)
	if err != nil || order == nil {
		return err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPaid, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if order.Status == enums.OrderStatusPending || order.Status == enums.OrderStatusConfirmed {
			if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order status")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.PaymentStatus = enums.PaymentStatusPaid
	if order.Status == enums.OrderStatusPending || order.Status == enums.OrderStatusConfirmed {
		order.Status = enums.OrderStatusProcessing
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "order marked paid via webhook")

	profile, err := s.profiles.FindByID(ctx, order.UserID)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("profile lookup for payment email failed: %v", err))
		return nil
	}
	s.notify.PaymentConfirmation(ctx, profile, order)
	return nil
}

// handlePaymentFailed cancels the order and puts the reserved stock back.
func (s *Service) handlePaymentFailed(ctx context.Context, paymentIntentID string) error {
	order, err := s.findOrder(ctx, paymentIntentID)
	if err != nil || order == nil {
		return err
	}
	if order.PaymentStatus == enums.PaymentStatusFailed || order.Status == enums.OrderStatusCancelled {
		return nil
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		// a failure event after a success event is stale; success wins
		return nil
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusFailed, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
		}
		for _, item := range order.Items {
			if err := s.stock.Release(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logg.Warn(s.logg.WithOrderNumber(ctx, order.OrderNumber), "order cancelled after payment failure")
	return nil
}

// findOrder resolves the intent's order. An unknown intent is logged and
// dropped so the gateway stops retrying an event we can never apply.
func (s *Service) findOrder(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	order, err := s.orderRepo.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			s.logg.Warn(ctx, fmt.Sprintf("no order for payment intent %s", paymentIntentID))
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for intent")
	}
	return order, nil
}
