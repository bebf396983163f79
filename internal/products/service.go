package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// Service exposes catalog operations to the HTTP layer.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, pagination.Meta, error)
	Get(ctx context.Context, idOrSlug string) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a products service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, pagination.Meta, error) {
	products, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, params.MetaFor(total), nil
}

// Get resolves a product by UUID or, failing that, by slug. Inactive
// products are hidden from the storefront.
func (s *service) Get(ctx context.Context, idOrSlug string) (*models.Product, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var (
		product *models.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.repo.FindByID(ctx, id)
	} else {
		product, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
