// Package pricing computes checkout totals from configured storefront policy.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/minimalstore/storefront-api/pkg/config"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

// Line is one priced quantity entering a checkout.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the full price breakdown for an order. Every amount is rounded
// to cents before it is stored or charged.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculator applies the configured pricing policy. Shipping is waived when
// the subtotal strictly exceeds the free-shipping threshold.
type Calculator struct {
	freeShippingThreshold decimal.Decimal
	taxRate               decimal.Decimal
	shippingRate          decimal.Decimal
}

// NewCalculator builds a calculator from the pricing config.
func NewCalculator(cfg config.PricingConfig) (*Calculator, error) {
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	if cfg.DefaultShippingRate.IsNegative() {
		return nil, fmt.Errorf("shipping rate must not be negative")
	}
	return &Calculator{
		freeShippingThreshold: cfg.FreeShippingThreshold,
		taxRate:               cfg.TaxRate,
		shippingRate:          cfg.DefaultShippingRate,
	}, nil
}

// Totals prices the given lines. Quantities must be positive.
func (c *Calculator) Totals(lines []Line) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "line unit price must not be negative")
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	shipping := c.shippingRate.Round(2)
	if subtotal.GreaterThan(c.freeShippingThreshold) {
		shipping = decimal.Zero.Round(2)
	}

	tax := subtotal.Mul(c.taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
	}, nil
}

// LineTotal prices a single line rounded to cents.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
