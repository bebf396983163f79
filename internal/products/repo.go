package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// CategoryMatch selects how listing filters match categories.
type CategoryMatch string

const (
	CategoryMatchExact CategoryMatch = "exact"
	CategoryMatchFuzzy CategoryMatch = "fuzzy"
)

type repository struct {
	db            *gorm.DB
	categoryMatch CategoryMatch
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB, categoryMatch CategoryMatch) Repository {
	if categoryMatch != CategoryMatchExact {
		categoryMatch = CategoryMatchFuzzy
	}
	return &repository{db: db, categoryMatch: categoryMatch}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, categoryMatch: r.categoryMatch}
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(filters.Category); category != "" {
		switch r.categoryMatch {
		case CategoryMatchExact:
			query = query.Where("category_slug = ?", category)
		default:
			needle := "%" + strings.ToLower(category) + "%"
			query = query.Where("LOWER(category_slug) LIKE ? OR LOWER(category_name) LIKE ?", needle, needle)
		}
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}
	if filters.InStock != nil {
		query = query.Where("in_stock = ?", *filters.InStock)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Order(orderClause(filters.Sort)).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "name":
		return "name ASC"
	default:
		return "created_at DESC"
	}
}
