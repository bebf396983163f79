package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a purchasable catalog listing. Stock fields are the
// product-level ledger; variant-level stock lives on ProductVariant.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex:products_slug_key" json:"slug"`
	Name           string           `gorm:"column:name;not null" json:"name"`
	Description    *string          `gorm:"column:description" json:"description,omitempty"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(10,2)" json:"compare_at_price,omitempty"`
	Currency       string           `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	CategorySlug   string           `gorm:"column:category_slug;not null;index:products_category_slug_idx" json:"category_slug"`
	CategoryName   string           `gorm:"column:category_name;not null" json:"category_name"`
	Images         pq.StringArray   `gorm:"column:images;type:text[]" json:"images"`
	StockQuantity  int              `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	InStock        bool             `gorm:"column:in_stock;not null;default:true" json:"in_stock"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// PrimaryImage returns the first catalog image, if any.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
