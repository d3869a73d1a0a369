// Package pricing computes donation charge amounts. All arithmetic is
// decimal-based; binary floats would drift at the cent boundary.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingAmount   = errors.New("missing_amount")
	ErrInvalidDiscount = errors.New("invalid_discount")
)

var oneHundred = decimal.NewFromInt(100)

// ResolveBaseAmount picks the charge base: an explicit amount wins, otherwise
// the donation-type catalog amount fills in.
func ResolveBaseAmount(explicit *decimal.Decimal, catalogAmount *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil && explicit.IsPositive() {
		return explicit.Round(2), nil
	}
	if catalogAmount != nil && catalogAmount.IsPositive() {
		return catalogAmount.Round(2), nil
	}
	return decimal.Decimal{}, ErrMissingAmount
}

// ApplyPromo discounts amount by discountPercent (0..100) and rounds half-up
// to cents. A zero percent is a no-op, 100 is free.
func ApplyPromo(amount decimal.Decimal, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(oneHundred) {
		return decimal.Decimal{}, ErrInvalidDiscount
	}

	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred))
	discounted := amount.Mul(factor).Round(2)
	if discounted.IsNegative() {
		return decimal.Zero, nil
	}
	return discounted, nil
}
