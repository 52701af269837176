package collections_test

import (
	"testing"

	"quotemanagement/collections"
	"quotemanagement/testhelpers"
)

func TestSeed_InsertsDemoData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	customers, err := app.FindAllRecords("customers")
	if err != nil {
		t.Fatalf("query customers: %v", err)
	}
	if len(customers) == 0 {
		t.Error("expected seeded customers")
	}

	products, err := app.FindAllRecords("products")
	if err != nil {
		t.Fatalf("query products: %v", err)
	}
	if len(products) == 0 {
		t.Error("expected seeded products")
	}

	settings, err := app.FindAllRecords("company_settings")
	if err != nil {
		t.Fatalf("query company_settings: %v", err)
	}
	if len(settings) != 1 {
		t.Fatalf("expected exactly one company_settings row, got %d", len(settings))
	}
	if got := settings[0].GetFloat("default_vat_rate"); got != 4.0 {
		t.Errorf("default_vat_rate = %v, want 4.0", got)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	first, _ := app.FindAllRecords("customers")

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	second, _ := app.FindAllRecords("customers")

	if len(first) != len(second) {
		t.Errorf("second Seed() changed customer count: %d != %d", len(second), len(first))
	}

	settings, _ := app.FindAllRecords("company_settings")
	if len(settings) != 1 {
		t.Errorf("expected company settings to stay a singleton, got %d rows", len(settings))
	}
}
