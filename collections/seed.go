package collections

import (
	"fmt"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	name          string
	email         string
	phone         string
	address       string
	contactPerson string
	vatNumber     string
}

type productDef struct {
	sku       string
	name      string
	category  string
	unitPrice float64
	vatRate   float64
}

var seedCustomers = []customerDef{
	{
		name:          "Verde Urbano SRL",
		email:         "ordini@verdeurbano.example",
		phone:         "+39 02 5550 1234",
		address:       "Via delle Piante 12, 20121 Milano MI",
		contactPerson: "Laura Bianchi",
		vatNumber:     "IT09876543210",
	},
	{
		name:          "Garden Center Toscana",
		email:         "acquisti@gctoscana.example",
		phone:         "+39 055 555 8765",
		address:       "Viale dei Giardini 3, 50100 Firenze FI",
		contactPerson: "Marco Rossi",
		vatNumber:     "IT01234567890",
	},
}

var seedProducts = []productDef{
	{sku: "0130050", name: "CANNA Terra Professional Plus 50L", category: "Medium / Medium TERRA", unitPrice: 12.52, vatRate: 4},
	{sku: "0140010", name: "CANNA Terra Vega 1L", category: "Nutrients", unitPrice: 9.80, vatRate: 4},
	{sku: "P24016353", name: "Calendar CANNA 2026", category: "Other / Promo", unitPrice: 0, vatRate: 22},
}

// Seed populates the catalog with demo data, ensures the company settings
// singleton exists and optionally creates the first admin account from the
// QUOTES_ADMIN_EMAIL / QUOTES_ADMIN_PASSWORD environment variables. It is
// safe to call on every startup.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedCompanySettings(app); err != nil {
		return err
	}
	if err := seedAdminUser(app); err != nil {
		return err
	}

	// ── idempotency: skip demo data if customers already exist ────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	existing, err := app.FindAllRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: customers collection is empty – inserting seed data …")

	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: could not find products collection: %w", err)
	}

	for _, def := range seedCustomers {
		rec := core.NewRecord(customersCol)
		rec.Set("name", def.name)
		rec.Set("email", def.email)
		rec.Set("phone", def.phone)
		rec.Set("address", def.address)
		rec.Set("contact_person", def.contactPerson)
		rec.Set("vat_number", def.vatNumber)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not save customer %q: %w", def.name, err)
		}
	}

	for _, def := range seedProducts {
		rec := core.NewRecord(productsCol)
		rec.Set("sku", def.sku)
		rec.Set("name", def.name)
		rec.Set("description", def.name)
		rec.Set("category", def.category)
		rec.Set("unit_price", def.unitPrice)
		rec.Set("vat_rate", def.vatRate)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not save product %q: %w", def.sku, err)
		}
	}

	log.Printf("seed: inserted %d customers and %d products", len(seedCustomers), len(seedProducts))
	return nil
}

// seedCompanySettings creates the settings singleton with defaults when the
// collection is empty.
func seedCompanySettings(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find company_settings collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query company settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	rec := core.NewRecord(col)
	rec.Set("company_name", "Grow United Italy")
	rec.Set("default_vat_rate", 4.0)
	rec.Set("mail_port", 587)
	rec.Set("mail_tls", true)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("seed: could not save company settings: %w", err)
	}
	return nil
}

// seedAdminUser creates the first admin account from environment variables.
// There is deliberately no built-in credential list; without the variables
// the users collection starts empty.
func seedAdminUser(app *pocketbase.PocketBase) error {
	email := os.Getenv("QUOTES_ADMIN_EMAIL")
	password := os.Getenv("QUOTES_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	if _, err := app.FindAuthRecordByEmail("users", email); err == nil {
		return nil // already present
	}

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return fmt.Errorf("seed: could not find users collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("email", email)
	rec.Set("name", "Administrator")
	rec.Set("role", "admin")
	rec.Set("password", password)
	rec.Set("verified", true)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("seed: could not save admin user: %w", err)
	}
	log.Printf("seed: created admin account %s", email)
	return nil
}
