package checkout

import "github.com/shopspring/decimal"

// Totals is the money breakdown for the review step and the final order.
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// ComputeTotals derives the full breakdown. Tax applies to the merchandise
// subtotal only, before the discount and excluding shipping.
func ComputeTotals(subtotalCents, shippingCents, discountCents int64, taxRate float64) Totals {
	tax := decimal.NewFromInt(subtotalCents).
		Mul(decimal.NewFromFloat(taxRate)).
		Round(0).
		IntPart()

	// Cap the discount at the full pre-discount amount so a generous fixed
	// coupon can zero the total but never push it negative.
	if limit := subtotalCents + shippingCents + tax; discountCents > limit {
		discountCents = limit
	}
	if discountCents < 0 {
		discountCents = 0
	}

	return Totals{
		SubtotalCents: subtotalCents,
		ShippingCents: shippingCents,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    subtotalCents + shippingCents + tax - discountCents,
	}
}
