package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// Repository exposes catalog reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// ListFilters narrows a catalog listing.
type ListFilters struct {
	Category string
	Search   string
	Featured *bool
	InStock  *bool
	Sort     string
}
