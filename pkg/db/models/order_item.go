package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimalstore/storefront-api/pkg/types"
)

// OrderItem captures one purchased line. Created atomically with its Order
// and never mutated; ProductSnapshot reflects the product at purchase time.
type OrderItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx" json:"order_id"`
	ProductID       uuid.UUID             `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	VariantID       *uuid.UUID            `gorm:"column:variant_id;type:uuid" json:"variant_id,omitempty"`
	Quantity        int                   `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal       `gorm:"column:total_price;type:numeric(10,2);not null" json:"total_price"`
	ProductSnapshot types.ProductSnapshot `gorm:"column:product_snapshot;type:jsonb;serializer:json" json:"product_snapshot"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
