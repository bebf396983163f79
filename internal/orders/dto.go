package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/types"
)

// CreateInput captures one checkout request. The cart is the source of
// truth for lines; the request only supplies addresses and intent.
type CreateInput struct {
	ShippingAddress types.Address       `json:"shipping_address" validate:"required"`
	BillingAddress  *types.Address      `json:"billing_address,omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// ListFilters narrows an order listing.
type ListFilters struct {
	Status *enums.OrderStatus
}

// PaymentSession is returned by ProcessPayment so the client can complete
// the charge.
type PaymentSession struct {
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        enums.Currency  `json:"currency"`
}

// Summary aggregates a user's order history.
type Summary struct {
	TotalOrders    int64                       `json:"total_orders"`
	TotalSpent     decimal.Decimal             `json:"total_spent"`
	CountsByStatus map[enums.OrderStatus]int64 `json:"counts_by_status"`
}

// TrackStep is one stage in the fulfilment timeline.
type TrackStep struct {
	Status    enums.OrderStatus `json:"status"`
	Completed bool              `json:"completed"`
	Current   bool              `json:"current"`
}

// Tracking is the payload for the order tracking endpoint.
type Tracking struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Steps         []TrackStep         `json:"steps"`
}

// ReorderResult reports which lines made it back into the cart.
type ReorderResult struct {
	AddedItems   int      `json:"added_items"`
	SkippedItems []string `json:"skipped_items,omitempty"`
}
