// Package testhelpers provides utilities for testing PocketBase-based
// applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record with the given name.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", "buyer@example.com")
	record.Set("phone", "+39 02 5550 0000")
	record.Set("address", "Via Roma 1, Milano")
	record.Set("vat_number", "IT01234567890")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}
	return record
}

// CreateTestProduct creates a product record with the given SKU and price.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, sku, name string, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("sku", sku)
	record.Set("name", name)
	record.Set("description", name)
	record.Set("category", "Nutrients")
	record.Set("unit_price", unitPrice)
	record.Set("vat_rate", 22.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}
	return record
}

// CreateTestQuote creates a draft quotation with the given number.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, customerID, number string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("number", number)
	record.Set("customer", customerID)
	record.Set("status", "draft")
	record.Set("discount_type", "none")
	record.Set("vat_rate", 22.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}
	return record
}

// CreateTestQuoteItem creates a line item linked to a quote.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, quoteID, productID, description string, qty, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		t.Fatalf("failed to find quote_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quoteID)
	record.Set("product", productID)
	record.Set("sort_order", 1)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)
	record.Set("line_total", qty*unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote item: %v", err)
	}
	return record
}

// CreateTestUser creates an auth record with the given role.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email, password, role string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("email", email)
	record.Set("name", "Test User")
	record.Set("role", role)
	record.Set("password", password)
	record.Set("verified", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}
	return record
}
