package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one pending purchase line for a user. It is destroyed on order
// creation or explicit removal.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx;uniqueIndex:cart_items_user_product_variant_key" json:"user_id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_user_product_variant_key" json:"product_id"`
	VariantID *uuid.UUID      `gorm:"column:variant_id;type:uuid;uniqueIndex:cart_items_user_product_variant_key" json:"variant_id,omitempty"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
