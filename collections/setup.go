// Package collections creates the application schema programmatically and
// seeds initial data.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the customers, products,
// quotations, quote_items, company_settings and users collections exist.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.EmailField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "contact_person"})
		c.Fields.Add(&core.TextField{Name: "vat_number"})
		c.Fields.Add(&core.BoolField{Name: "is_archived"})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.DateField{Name: "deleted_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	products := ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "sku", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: true})
		c.Fields.Add(&core.NumberField{Name: "vat_rate"})
		c.Fields.Add(&core.BoolField{Name: "is_archived"})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.DateField{Name: "deleted_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		// CSV import upserts match on SKU, so duplicates must fail at the
		// store level.
		c.AddIndex("idx_products_sku", true, "sku", "")
	})

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		// Customer contact snapshot, captured at drafting time.
		c.Fields.Add(&core.TextField{Name: "customer_name"})
		c.Fields.Add(&core.TextField{Name: "customer_email"})
		c.Fields.Add(&core.TextField{Name: "customer_phone"})
		c.Fields.Add(&core.TextField{Name: "customer_address"})
		c.Fields.Add(&core.TextField{Name: "customer_vat_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "confirmed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "discount_type",
			Values:    []string{"none", "percentage", "fixed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "discount_value"})
		c.Fields.Add(&core.NumberField{Name: "vat_rate"})
		// Derived figures, rounded at persistence. Recomputed from the line
		// items on every save, never editable on their own.
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "discount_amount"})
		c.Fields.Add(&core.NumberField{Name: "taxable_total"})
		c.Fields.Add(&core.NumberField{Name: "vat_amount"})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "terms_and_conditions"})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.JSONField{Name: "status_history"})
		c.Fields.Add(&core.BoolField{Name: "is_archived"})
		c.Fields.Add(&core.DateField{Name: "archived_at"})
		c.Fields.Add(&core.TextField{Name: "archived_by"})
		c.Fields.Add(&core.BoolField{Name: "deleted"})
		c.Fields.Add(&core.DateField{Name: "deleted_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		// Number generation is count-then-format and racy under concurrent
		// drafting; the index turns a duplicate into a failed save instead
		// of two quotes sharing a number.
		c.AddIndex("idx_quotations_number", true, "number", "")
	})

	ensureCollection(app, "quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "vat_rate"})
		c.Fields.Add(&core.NumberField{Name: "line_total"})
		// Frozen on the first transition away from draft.
		c.Fields.Add(&core.TextField{Name: "product_name_snapshot"})
		c.Fields.Add(&core.TextField{Name: "product_code_snapshot"})
	})

	ensureCollection(app, "company_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.EmailField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "vat_number"})
		c.Fields.Add(&core.NumberField{Name: "default_vat_rate"})
		c.Fields.Add(&core.FileField{Name: "logo", MaxSelect: 1, MaxSize: 5 * 1024 * 1024})
		c.Fields.Add(&core.TextField{Name: "mail_server"})
		c.Fields.Add(&core.NumberField{Name: "mail_port"})
		c.Fields.Add(&core.TextField{Name: "mail_username"})
		c.Fields.Add(&core.TextField{Name: "mail_password", Hidden: true})
		c.Fields.Add(&core.TextField{Name: "mail_from"})
		c.Fields.Add(&core.TextField{Name: "mail_from_name"})
		c.Fields.Add(&core.BoolField{Name: "mail_tls"})
		c.Fields.Add(&core.BoolField{Name: "mail_ssl"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureUsersCollection(app)
}

// ensureUsersCollection creates the auth collection carrying the role used
// by the capability checks. PocketBase supplies the email/password handling.
func ensureUsersCollection(app *pocketbase.PocketBase) {
	existing, err := app.FindCollectionByNameOrId("users")
	if err == nil && existing != nil {
		return
	}

	collection := core.NewAuthCollection("users")
	collection.Fields.Add(&core.TextField{Name: "name"})
	collection.Fields.Add(&core.SelectField{
		Name:      "role",
		Required:  true,
		Values:    []string{"admin", "manager", "user"},
		MaxSelect: 1,
	})
	collection.Fields.Add(&core.FileField{Name: "avatar", MaxSelect: 1, MaxSize: 5 * 1024 * 1024})
	collection.Fields.Add(&core.BoolField{Name: "deleted"})
	collection.Fields.Add(&core.DateField{Name: "deleted_at"})

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", "users", err)
	}
	fmt.Printf("Created collection %q (id=%s)\n", "users", collection.Id)
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
