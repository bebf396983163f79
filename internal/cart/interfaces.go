package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
)

// Repository exposes cart line persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	FindByID(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ClearUser(ctx context.Context, userID uuid.UUID) error
}
