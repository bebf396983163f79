package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/types"
)

// Order is created once per checkout. Its line snapshot is immutable after
// creation; only status and payment fields transition afterwards.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key" json:"order_number"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx" json:"user_id"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'" json:"payment_status"`
	PaymentIntentID *string             `gorm:"column:payment_intent_id;index:orders_payment_intent_id_idx" json:"payment_intent_id,omitempty"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal     `gorm:"column:tax_amount;type:numeric(10,2);not null" json:"tax_amount"`
	ShippingAmount  decimal.Decimal     `gorm:"column:shipping_amount;type:numeric(10,2);not null" json:"shipping_amount"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	Currency        enums.Currency      `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	BillingAddress  *types.Address      `gorm:"column:billing_address;type:jsonb;serializer:json" json:"billing_address,omitempty"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:'card'" json:"payment_method"`
	Notes           *string             `gorm:"column:notes" json:"notes,omitempty"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
