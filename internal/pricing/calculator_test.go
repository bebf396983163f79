package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimalstore/storefront-api/pkg/config"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
)

func defaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(config.PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(100),
		TaxRate:               decimal.RequireFromString("0.08"),
		DefaultShippingRate:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return calc
}

func TestTotalsWaivesShippingAboveThreshold(t *testing.T) {
	calc := defaultCalculator(t)

	totals, err := calc.Totals([]Line{{UnitPrice: decimal.NewFromInt(55), Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, "110", totals.Subtotal.String())
	assert.True(t, totals.Shipping.IsZero(), "shipping should be waived above threshold")
	assert.Equal(t, "8.8", totals.Tax.String())
	assert.Equal(t, "118.8", totals.Total.String())
}

func TestTotalsChargesShippingAtOrBelowThreshold(t *testing.T) {
	calc := defaultCalculator(t)

	totals, err := calc.Totals([]Line{{UnitPrice: decimal.NewFromInt(40), Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, "80", totals.Subtotal.String())
	assert.Equal(t, "10", totals.Shipping.String())
	assert.Equal(t, "6.4", totals.Tax.String())
	assert.Equal(t, "96.4", totals.Total.String())

	// exactly at the threshold still pays shipping
	totals, err = calc.Totals([]Line{{UnitPrice: decimal.NewFromInt(100), Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "10", totals.Shipping.String())
}

func TestTotalsRoundsTaxToCents(t *testing.T) {
	calc := defaultCalculator(t)

	totals, err := calc.Totals([]Line{{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3}})
	require.NoError(t, err)

	// 59.97 * 0.08 = 4.7976 -> 4.80
	assert.Equal(t, "59.97", totals.Subtotal.String())
	assert.Equal(t, "4.8", totals.Tax.String())
	assert.Equal(t, "74.77", totals.Total.String())
}

func TestTotalsRejectsBadLines(t *testing.T) {
	calc := defaultCalculator(t)

	_, err := calc.Totals(nil)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = calc.Totals([]Line{{UnitPrice: decimal.NewFromInt(5), Quantity: 0}})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = calc.Totals([]Line{{UnitPrice: decimal.NewFromInt(-5), Quantity: 1}})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "59.97", LineTotal(decimal.RequireFromString("19.99"), 3).String())
}
