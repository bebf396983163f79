package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDAny(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) ListPaidByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND payment_status IN ?", userID, []enums.PaymentStatus{
			enums.PaymentStatusPaid,
			enums.PaymentStatusRefunded,
		})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Order("updated_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, paymentIntentID *string) error {
	updates := map[string]any{"payment_status": status}
	if paymentIntentID != nil {
		updates["payment_intent_id"] = *paymentIntentID
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	type statusRow struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalSpent:     decimal.Zero,
		CountsByStatus: map[enums.OrderStatus]int64{},
	}
	for _, row := range rows {
		summary.TotalOrders += row.Count
		summary.CountsByStatus[row.Status] = row.Count
	}

	var spent []decimal.Decimal
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND payment_status = ?", userID, enums.PaymentStatusPaid).
		Pluck("total_amount", &spent).Error
	if err != nil {
		return nil, err
	}
	for _, amount := range spent {
		summary.TotalSpent = summary.TotalSpent.Add(amount)
	}
	summary.TotalSpent = summary.TotalSpent.Round(2)
	return summary, nil
}
