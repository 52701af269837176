// Package services provides the business logic for the quotation
// application: totals calculation, quote numbering, lifecycle transitions,
// CSV import, document rendering and email delivery.
package services

import "math"

// DiscountType enumerates the supported quote-level discount modes.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// LineItem is one product entry on a quote while it is being edited.
// VATRate is an optional per-item override kept for display purposes;
// the totals pipeline applies the quote-level rate it is given.
type LineItem struct {
	ProductID   string
	Description string
	Quantity    float64
	UnitPrice   float64
	VATRate     *float64
}

// DiscountSpec describes the quote-level discount. Percentage values are
// interpreted on the 0-100 scale, fixed values as absolute currency amounts.
// When Type is DiscountNone the value is ignored.
type DiscountSpec struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Totals holds the derived financial figures of a quote. All fields carry
// full floating precision; rounding to 2 decimals happens only at
// presentation and persistence boundaries via Round2.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableTotal   float64 `json:"taxable_total"`
	VATRate        float64 `json:"vat_rate"`
	VATAmount      float64 `json:"vat_amount"`
	Total          float64 `json:"total"`
}

// TotalsPolicy controls edge-case behavior of the totals pipeline.
// AllowNegativeTaxableTotal permits a fixed discount larger than the
// subtotal to drive the taxable total (and the VAT) negative, which is how
// credit notes would be expressed. The default policy clamps instead.
type TotalsPolicy struct {
	AllowNegativeTaxableTotal bool
}

// DefaultTotalsPolicy clamps the fixed discount at the subtotal.
var DefaultTotalsPolicy = TotalsPolicy{AllowNegativeTaxableTotal: false}

// ComputeTotals derives the quote totals from line items, the discount
// configuration and the quote-level VAT rate (0-100 scale) under the
// default policy. It is pure: identical inputs yield identical outputs.
func ComputeTotals(items []LineItem, discount DiscountSpec, vatRatePercent float64) Totals {
	return ComputeTotalsWithPolicy(items, discount, vatRatePercent, DefaultTotalsPolicy)
}

// ComputeTotalsWithPolicy is ComputeTotals with an explicit edge-case
// policy. Degenerate numeric input (NaN, Inf, negatives) is coerced to 0
// rather than rejected, matching the permissive user-editable forms that
// feed it; callers validate user input before persisting.
func ComputeTotalsWithPolicy(items []LineItem, discount DiscountSpec, vatRatePercent float64, policy TotalsPolicy) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += sanitizeAmount(item.Quantity) * sanitizeAmount(item.UnitPrice)
	}

	var discountAmount float64
	switch discount.Type {
	case DiscountPercentage:
		discountAmount = subtotal * (sanitizeAmount(discount.Value) / 100)
	case DiscountFixed:
		discountAmount = sanitizeAmount(discount.Value)
		if !policy.AllowNegativeTaxableTotal && discountAmount > subtotal {
			discountAmount = subtotal
		}
	default:
		discountAmount = 0
	}

	taxableTotal := subtotal - discountAmount
	vatRate := sanitizeAmount(vatRatePercent)
	vatAmount := taxableTotal * (vatRate / 100)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableTotal:   taxableTotal,
		VATRate:        vatRate,
		VATAmount:      vatAmount,
		Total:          taxableTotal + vatAmount,
	}
}

// LineTotal returns quantity x unit price for a single item. Persisted line
// totals are always recomputed through this, never trusted from input.
func LineTotal(item LineItem) float64 {
	return sanitizeAmount(item.Quantity) * sanitizeAmount(item.UnitPrice)
}

// Round2 rounds to 2 decimal places. Used at display and persistence
// boundaries only, never between pipeline steps.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sanitizeAmount coerces NaN, infinities and negative values to 0.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
