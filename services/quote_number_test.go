package services

import (
	"fmt"
	"testing"
	"time"

	"quotemanagement/testhelpers"
)

func TestFormatQuoteNumber(t *testing.T) {
	tests := []struct {
		year     int
		sequence int
		expect   string
	}{
		{2026, 1, "QUO2026/0001"},
		{2026, 4, "QUO2026/0004"},
		{2026, 42, "QUO2026/0042"},
		{2026, 1234, "QUO2026/1234"},
		{2027, 10000, "QUO2027/10000"},
	}
	for _, tt := range tests {
		if got := formatQuoteNumber(tt.year, tt.sequence); got != tt.expect {
			t.Errorf("formatQuoteNumber(%d, %d) = %q, want %q", tt.year, tt.sequence, got, tt.expect)
		}
	}
}

func TestGenerateQuoteNumber_FirstOfYear(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	number, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber failed: %v", err)
	}
	if number != "QUO2026/0001" {
		t.Errorf("number = %q, want QUO2026/0001", number)
	}
}

func TestGenerateQuoteNumber_Increments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Verde Urbano SRL")

	for i := 1; i <= 3; i++ {
		testhelpers.CreateTestQuote(t, app, customer.Id, fmt.Sprintf("QUO2026/%04d", i))
	}

	now := time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	number, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber failed: %v", err)
	}
	if number != "QUO2026/0004" {
		t.Errorf("number = %q, want QUO2026/0004", number)
	}
}

func TestGenerateQuoteNumber_SequenceResetsPerYear(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Garden Center Toscana")

	testhelpers.CreateTestQuote(t, app, customer.Id, "QUO2025/0001")
	testhelpers.CreateTestQuote(t, app, customer.Id, "QUO2025/0002")

	now := time.Date(2026, time.January, 2, 8, 0, 0, 0, time.UTC)
	number, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber failed: %v", err)
	}
	if number != "QUO2026/0001" {
		t.Errorf("number = %q, want QUO2026/0001 (previous year must not count)", number)
	}
}
