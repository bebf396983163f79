package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minimalstore/storefront-api/internal/pricing"
	"github.com/minimalstore/storefront-api/pkg/db/models"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddInput captures one add-to-cart request.
type AddInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// Summary is the cart payload returned to clients: lines plus a running
// subtotal. Full totals (tax, shipping) are computed at checkout.
type Summary struct {
	Items    []models.CartItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Count    int               `json:"count"`
}

// Service exposes cart operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(pricing.LineTotal(unitPriceFor(item), item.Quantity))
	}

	return &Summary{Items: items, Subtotal: subtotal.Round(2), Count: count}, nil
}

// Add merges quantity into an existing line for the same product/variant
// instead of creating a duplicate row.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.CartItem, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.InStock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Product is out of stock")
	}
	if input.VariantID != nil && !variantBelongs(product, *input.VariantID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
	}

	existing, err := s.repo.FindLine(ctx, userID, input.ProductID, input.VariantID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart line")
	}

	if existing != nil {
		merged := existing.Quantity + input.Quantity
		if err := s.repo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
		return s.findByID(ctx, existing.ID, userID)
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return s.findByID(ctx, item.ID, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.findByID(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}
	item.Quantity = quantity
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.findByID(ctx, itemID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) findByID(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindByID(ctx, itemID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	return item, nil
}

func variantBelongs(product *models.Product, variantID uuid.UUID) bool {
	for _, variant := range product.Variants {
		if variant.ID == variantID {
			return true
		}
	}
	return false
}

// unitPriceFor resolves the effective price of a line: the variant override
// when present, otherwise the product price.
func unitPriceFor(item models.CartItem) decimal.Decimal {
	if item.Variant != nil && item.Variant.Price != nil {
		return *item.Variant.Price
	}
	if item.Product != nil {
		return item.Product.Price
	}
	return decimal.Zero
}
