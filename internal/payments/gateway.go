// Package payments adapts the storefront's money movement onto the payment
// gateway. Amounts cross the boundary in minor units.
package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Intent mirrors the gateway payment-intent fields the workflow cares about.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	OrderID      string
}

// IntentStatusSucceeded is the gateway status required before an order may
// move past confirmation.
const IntentStatusSucceeded = "succeeded"

// Refund mirrors the gateway refund result.
type Refund struct {
	ID     string
	Status string
	Amount int64
}

// CreateIntentInput carries everything the gateway needs to open an intent.
// Metadata ties the intent back to the order for webhook correlation.
type CreateIntentInput struct {
	Amount      decimal.Decimal
	Currency    string
	OrderID     uuid.UUID
	OrderNumber string
	UserID      uuid.UUID
}

// Gateway is the narrow payment-processor surface the order workflow and the
// payments service consume.
type Gateway interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateRefund(ctx context.Context, intentID string, amount *decimal.Decimal) (*Refund, error)
}

// MinorUnits converts a decimal amount to gateway minor units (cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
