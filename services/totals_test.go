package services

import (
	"math"
	"testing"
)

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals_NoDiscount(t *testing.T) {
	// 2 units @ 50.00, VAT 22%
	items := []LineItem{{Description: "Widget", Quantity: 2, UnitPrice: 50}}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountNone}, 22)

	if !floatClose(got.Subtotal, 100) {
		t.Errorf("Subtotal = %f, want 100", got.Subtotal)
	}
	if got.DiscountAmount != 0 {
		t.Errorf("DiscountAmount = %f, want 0", got.DiscountAmount)
	}
	if !floatClose(got.TaxableTotal, 100) {
		t.Errorf("TaxableTotal = %f, want 100", got.TaxableTotal)
	}
	if !floatClose(got.VATAmount, 22) {
		t.Errorf("VATAmount = %f, want 22", got.VATAmount)
	}
	if !floatClose(got.Total, 122) {
		t.Errorf("Total = %f, want 122", got.Total)
	}
}

func TestComputeTotals_PercentageDiscount(t *testing.T) {
	// 1 unit @ 100.00, 10% discount, VAT 4%
	items := []LineItem{{Description: "Service", Quantity: 1, UnitPrice: 100}}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountPercentage, Value: 10}, 4)

	if !floatClose(got.Subtotal, 100) {
		t.Errorf("Subtotal = %f, want 100", got.Subtotal)
	}
	if !floatClose(got.DiscountAmount, 10) {
		t.Errorf("DiscountAmount = %f, want 10", got.DiscountAmount)
	}
	if !floatClose(got.TaxableTotal, 90) {
		t.Errorf("TaxableTotal = %f, want 90", got.TaxableTotal)
	}
	if !floatClose(got.VATAmount, 3.6) {
		t.Errorf("VATAmount = %f, want 3.6", got.VATAmount)
	}
	if !floatClose(got.Total, 93.6) {
		t.Errorf("Total = %f, want 93.6", got.Total)
	}
}

func TestComputeTotals_FixedDiscount(t *testing.T) {
	// 3 units @ 33.33, fixed discount 10.00, VAT 0%
	items := []LineItem{{Description: "Soil", Quantity: 3, UnitPrice: 33.33}}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountFixed, Value: 10}, 0)

	if !floatClose(got.Subtotal, 99.99) {
		t.Errorf("Subtotal = %f, want 99.99", got.Subtotal)
	}
	if !floatClose(got.DiscountAmount, 10) {
		t.Errorf("DiscountAmount = %f, want 10", got.DiscountAmount)
	}
	if !floatClose(got.TaxableTotal, 89.99) {
		t.Errorf("TaxableTotal = %f, want 89.99", got.TaxableTotal)
	}
	if got.VATAmount != 0 {
		t.Errorf("VATAmount = %f, want 0", got.VATAmount)
	}
	if !floatClose(got.Total, 89.99) {
		t.Errorf("Total = %f, want 89.99", got.Total)
	}
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	got := ComputeTotals(nil, DiscountSpec{Type: DiscountNone}, 22)
	if got.Subtotal != 0 || got.DiscountAmount != 0 || got.TaxableTotal != 0 ||
		got.VATAmount != 0 || got.Total != 0 {
		t.Errorf("empty items should produce all-zero totals, got %+v", got)
	}
}

func TestComputeTotals_ZeroPercentDiscount(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, UnitPrice: 10},
		{Quantity: 1, UnitPrice: 5},
	}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountPercentage, Value: 0}, 22)
	if got.DiscountAmount != 0 {
		t.Errorf("0%% discount should yield DiscountAmount 0, got %f", got.DiscountAmount)
	}
}

func TestComputeTotals_FullPercentageDiscount(t *testing.T) {
	items := []LineItem{
		{Quantity: 4, UnitPrice: 25.5},
		{Quantity: 1, UnitPrice: 0.5},
	}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountPercentage, Value: 100}, 22)
	if !floatClose(got.TaxableTotal, 0) {
		t.Errorf("100%% discount should wipe the taxable total, got %f", got.TaxableTotal)
	}
	if !floatClose(got.VATAmount, 0) {
		t.Errorf("VAT on a zero taxable total should be 0, got %f", got.VATAmount)
	}
}

func TestComputeTotals_FixedDiscountClampedBySubtotal(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: 50}}

	got := ComputeTotals(items, DiscountSpec{Type: DiscountFixed, Value: 80}, 22)
	if !floatClose(got.DiscountAmount, 50) {
		t.Errorf("clamped DiscountAmount = %f, want 50", got.DiscountAmount)
	}
	if got.TaxableTotal != 0 {
		t.Errorf("clamped TaxableTotal = %f, want 0", got.TaxableTotal)
	}
}

func TestComputeTotalsWithPolicy_AllowNegativeTaxableTotal(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: 50}}
	policy := TotalsPolicy{AllowNegativeTaxableTotal: true}

	got := ComputeTotalsWithPolicy(items, DiscountSpec{Type: DiscountFixed, Value: 80}, 10, policy)
	if !floatClose(got.DiscountAmount, 80) {
		t.Errorf("DiscountAmount = %f, want 80", got.DiscountAmount)
	}
	if !floatClose(got.TaxableTotal, -30) {
		t.Errorf("TaxableTotal = %f, want -30", got.TaxableTotal)
	}
	if !floatClose(got.VATAmount, -3) {
		t.Errorf("VATAmount = %f, want -3", got.VATAmount)
	}
}

func TestComputeTotals_DegenerateInputCoercedToZero(t *testing.T) {
	items := []LineItem{
		{Quantity: math.NaN(), UnitPrice: 100},
		{Quantity: 2, UnitPrice: math.Inf(1)},
		{Quantity: -3, UnitPrice: 10},
		{Quantity: 2, UnitPrice: 10},
	}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountNone}, 22)
	if !floatClose(got.Subtotal, 20) {
		t.Errorf("degenerate rows should contribute 0; Subtotal = %f, want 20", got.Subtotal)
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: 33.33},
		{Quantity: 1.5, UnitPrice: 19.99},
	}
	discount := DiscountSpec{Type: DiscountPercentage, Value: 12.5}

	first := ComputeTotals(items, discount, 22)
	second := ComputeTotals(items, discount, 22)
	if first != second {
		t.Errorf("identical inputs produced different totals:\n%+v\n%+v", first, second)
	}
}

func TestComputeTotals_SubtotalSumsWithoutIntermediateRounding(t *testing.T) {
	// 0.1+0.2 style accumulations must not be rounded mid-pipeline.
	items := []LineItem{
		{Quantity: 1, UnitPrice: 0.1},
		{Quantity: 1, UnitPrice: 0.2},
	}
	got := ComputeTotals(items, DiscountSpec{Type: DiscountNone}, 0)
	want := 0.1 + 0.2
	if got.Subtotal != want {
		t.Errorf("Subtotal = %v, want exact float sum %v", got.Subtotal, want)
	}
}

func TestComputeTotals_RoundingConsistency(t *testing.T) {
	cases := []struct {
		name     string
		items    []LineItem
		discount DiscountSpec
		rate     float64
	}{
		{"plain", []LineItem{{Quantity: 3, UnitPrice: 33.33}}, DiscountSpec{Type: DiscountNone}, 22},
		{"percentage", []LineItem{{Quantity: 7, UnitPrice: 14.285}}, DiscountSpec{Type: DiscountPercentage, Value: 17.5}, 4},
		{"fixed", []LineItem{{Quantity: 2, UnitPrice: 0.335}}, DiscountSpec{Type: DiscountFixed, Value: 0.1}, 22},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.discount, tt.rate)
			lhs := Round2(got.Subtotal - got.DiscountAmount + got.VATAmount)
			rhs := Round2(got.Total)
			if lhs != rhs {
				t.Errorf("round2(subtotal-discount+vat) = %v, round2(total) = %v", lhs, rhs)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name   string
		item   LineItem
		expect float64
	}{
		{"basic", LineItem{Quantity: 2, UnitPrice: 50}, 100},
		{"fractional", LineItem{Quantity: 2.5, UnitPrice: 10.5}, 26.25},
		{"negative price coerced", LineItem{Quantity: 2, UnitPrice: -5}, 0},
		{"zero", LineItem{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineTotal(tt.item); !floatClose(got, tt.expect) {
				t.Errorf("LineTotal(%+v) = %v, want %v", tt.item, got, tt.expect)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in     float64
		expect float64
	}{
		{1.005, 1.0}, // 1.005 is stored below 1.005 in binary
		{1.015, 1.01},
		{2.675, 2.67},
		{99.99, 99.99},
		{-1.234, -1.23},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.expect {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.expect)
		}
	}
}
