package payments

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/refund"

	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	pkgstripe "github.com/minimalstore/storefront-api/pkg/stripe"
)

type stripeGateway struct {
	client  *pkgstripe.Client
	timeout time.Duration
}

// NewStripeGateway wraps the configured Stripe client behind the Gateway
// surface. Every call is bounded by the configured timeout.
func NewStripeGateway(client *pkgstripe.Client, timeout time.Duration) (Gateway, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &stripeGateway{client: client, timeout: timeout}, nil
}

func (g *stripeGateway) CreateIntent(ctx context.Context, input CreateIntentInput) (*Intent, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "intent amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(input.Amount)),
		Currency: stripe.String(strings.ToLower(input.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", input.OrderID.String())
	params.AddMetadata("order_number", input.OrderNumber)
	params.AddMetadata("user_id", input.UserID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}
	return intentFromStripe(intent), nil
}

func (g *stripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	if strings.TrimSpace(intentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve payment intent")
	}
	return intentFromStripe(intent), nil
}

func (g *stripeGateway) CreateRefund(ctx context.Context, intentID string, amount *decimal.Decimal) (*Refund, error) {
	if strings.TrimSpace(intentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx
	if amount != nil {
		params.Amount = stripe.Int64(MinorUnits(*amount))
	}

	result, err := refund.New(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
	}
	return &Refund{
		ID:     result.ID,
		Status: string(result.Status),
		Amount: result.Amount,
	}, nil
}

func intentFromStripe(intent *stripe.PaymentIntent) *Intent {
	if intent == nil {
		return nil
	}
	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		OrderID:      intent.Metadata["order_id"],
	}
}
