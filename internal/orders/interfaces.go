package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// Repository exposes order persistence. Every method respects the bound
// transaction when obtained via WithTx.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, int64, error)
	ListPaidByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, paymentIntentID *string) error
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}
