package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant scopes a stock counter and optional price override under a
// product (e.g. size or color).
type ProductVariant struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index:product_variants_product_id_idx" json:"product_id"`
	Name          string           `gorm:"column:name;not null" json:"name"`
	Value         string           `gorm:"column:value;not null" json:"value"`
	Price         *decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price,omitempty"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
