package services

import (
	"bytes"
	"testing"

	"quotemanagement/testhelpers"
)

func TestBuildQuoteDocumentData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := UpdateCompanySettings(app, map[string]any{
		"company_name": "Grow United Italy",
		"address":      "Via dei Giardini 12, Milano",
		"vat_number":   "IT09876543210",
	}); err != nil {
		t.Fatalf("UpdateCompanySettings failed: %v", err)
	}

	customer := testhelpers.CreateTestCustomer(t, app, "Verde Urbano SRL")
	product := testhelpers.CreateTestProduct(t, app, "0130050", "CANNA Terra Professional Plus 50L", 12.52)

	vat := 22.0
	quote, err := DraftQuote(app, adminIdentity(), QuoteDraftInput{
		CustomerID: customer.Id,
		VATRate:    &vat,
		Items:      []QuoteItemInput{{ProductID: product.Id, Quantity: 10}},
	})
	if err != nil {
		t.Fatalf("DraftQuote failed: %v", err)
	}

	data, err := BuildQuoteDocumentData(app, quote)
	if err != nil {
		t.Fatalf("BuildQuoteDocumentData failed: %v", err)
	}

	if data.CompanyName != "Grow United Italy" {
		t.Errorf("company name = %q", data.CompanyName)
	}
	if data.CustomerName != "Verde Urbano SRL" {
		t.Errorf("customer name = %q", data.CustomerName)
	}
	if data.Number != quote.GetString("number") {
		t.Errorf("number = %q", data.Number)
	}
	if len(data.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(data.Rows))
	}
	row := data.Rows[0]
	if row.Index != 1 || row.Description != "CANNA Terra Professional Plus 50L" {
		t.Errorf("row = %+v", row)
	}
	if !floatClose(row.LineTotal, 125.20) {
		t.Errorf("line total = %v, want 125.20", row.LineTotal)
	}
	if !floatClose(data.Totals.Total, 152.744) {
		t.Errorf("total = %v, want unrounded 152.744", data.Totals.Total)
	}
}

func TestBuildQuoteDocumentData_PrefersSnapshots(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Verde Urbano SRL")
	product := testhelpers.CreateTestProduct(t, app, "SKU-1", "Original Name", 10)

	vat := 22.0
	quote, err := DraftQuote(app, adminIdentity(), QuoteDraftInput{
		CustomerID: customer.Id,
		VATRate:    &vat,
		Items:      []QuoteItemInput{{ProductID: product.Id, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("DraftQuote failed: %v", err)
	}
	if err := Transition(app, adminIdentity(), quote, StatusSent); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	product.Set("name", "Renamed Product")
	if err := app.Save(product); err != nil {
		t.Fatalf("save product: %v", err)
	}

	data, err := BuildQuoteDocumentData(app, quote)
	if err != nil {
		t.Fatalf("BuildQuoteDocumentData failed: %v", err)
	}
	if got := data.Rows[0].Description; got != "Original Name" {
		t.Errorf("description = %q, want frozen snapshot", got)
	}
	if got := data.Rows[0].Code; got != "SKU-1" {
		t.Errorf("code = %q, want frozen SKU", got)
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	data := &QuoteDocumentData{
		CompanyName:     "Grow United Italy",
		CompanyAddress:  "Via dei Giardini 12, Milano",
		CompanyEmail:    "quotes@example.com",
		CompanyVAT:      "IT09876543210",
		Number:          "QUO2026/0004",
		Date:            "01 Sep 2026",
		ValidUntil:      "30 Sep 2026",
		CustomerName:    "Verde Urbano SRL",
		CustomerAddress: "Via Roma 1, Milano",
		DiscountType:    DiscountPercentage,
		Notes:           "Delivery within 5 working days.",
		Terms:           "Payment 30 days end of month.",
		Rows: []QuoteDocumentRow{
			{Index: 1, Code: "0130050", Description: "CANNA Terra Professional Plus 50L", Quantity: 10, UnitPrice: 12.52, LineTotal: 125.2},
			{Index: 2, Code: "P24016353", Description: "Calendar CANNA 2026", Quantity: 1, UnitPrice: 0, LineTotal: 0},
		},
		Totals: Totals{Subtotal: 125.2, DiscountAmount: 12.52, TaxableTotal: 112.68, VATRate: 22, VATAmount: 24.7896, Total: 137.4696},
	}

	pdf, err := GenerateQuotePDF(data)
	if err != nil {
		t.Fatalf("GenerateQuotePDF failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output does not start with PDF magic bytes")
	}
}

func TestHumanizeQty(t *testing.T) {
	tests := []struct {
		in     float64
		expect string
	}{
		{2, "2"},
		{1.5, "1.5"},
		{10, "10"},
	}
	for _, tt := range tests {
		if got := humanizeQty(tt.in); got != tt.expect {
			t.Errorf("humanizeQty(%v) = %q, want %q", tt.in, got, tt.expect)
		}
	}
}
