// Package notifications delivers transactional email. Every send is
// best-effort: failures are logged and swallowed so a mail outage can never
// fail a checkout.
package notifications

import (
	"context"

	"github.com/minimalstore/storefront-api/pkg/db/models"
)

// Dispatcher is the notification surface consumed by the domain services.
type Dispatcher interface {
	OrderConfirmation(ctx context.Context, profile *models.Profile, order *models.Order)
	PaymentConfirmation(ctx context.Context, profile *models.Profile, order *models.Order)
	OrderStatusUpdate(ctx context.Context, profile *models.Profile, order *models.Order)
	Welcome(ctx context.Context, profile *models.Profile)
}

// Noop discards every notification. Used when no email credentials are
// configured (local dev).
type Noop struct{}

func (Noop) OrderConfirmation(context.Context, *models.Profile, *models.Order)   {}
func (Noop) PaymentConfirmation(context.Context, *models.Profile, *models.Order) {}
func (Noop) OrderStatusUpdate(context.Context, *models.Profile, *models.Order)   {}
func (Noop) Welcome(context.Context, *models.Profile)                            {}
