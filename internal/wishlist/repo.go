package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
)

// Repository persists wishlist entries. One row per (user, product).
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts the entry; a duplicate add is silently absorbed.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	existing, err := r.find(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	item := &models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Contains reports whether the product is on the user's wishlist.
func (r *Repository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	item, err := r.find(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (r *Repository) find(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
