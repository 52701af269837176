package collections_test

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/collections"
	"quotemanagement/testhelpers"
)

func testhelpersSetupAgain(t *testing.T, app *pocketbase.PocketBase) {
	t.Helper()
	collections.Setup(app)
}

func newQuoteRecord(col *core.Collection, customerID, number string) *core.Record {
	rec := core.NewRecord(col)
	rec.Set("number", number)
	rec.Set("customer", customerID)
	rec.Set("status", "draft")
	return rec
}

func newProductRecord(col *core.Collection, sku, name string) *core.Record {
	rec := core.NewRecord(col)
	rec.Set("sku", sku)
	rec.Set("name", name)
	rec.Set("unit_price", 1.0)
	return rec
}

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"customers",
	"products",
	"quotations",
	"quote_items",
	"company_settings",
	"users",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Running Setup again must not recreate or replace collections.
	testhelpersSetupAgain(t, app)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q was recreated: id %q != %q", name, col.Id, ids[name])
		}
	}
}

func TestSetup_QuotationNumberUniqueIndex(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Indexed Customer")

	testhelpers.CreateTestQuote(t, app, customer.Id, "QUO2026/0001")

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("find quotations: %v", err)
	}
	dup := newQuoteRecord(col, customer.Id, "QUO2026/0001")
	if err := app.Save(dup); err == nil {
		t.Error("expected duplicate quotation number to be rejected by the unique index")
	}
}

func TestSetup_ProductSKUUniqueIndex(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProduct(t, app, "SKU-1", "First", 10)

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("find products: %v", err)
	}
	dup := newProductRecord(col, "SKU-1", "Second")
	if err := app.Save(dup); err == nil {
		t.Error("expected duplicate SKU to be rejected by the unique index")
	}
}
