package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type productInput struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
}

func (in productInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SKU, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 300)),
		validation.Field(&in.UnitPrice, validation.Min(0.0)),
		validation.Field(&in.VATRate, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (in productInput) apply(rec *core.Record) {
	rec.Set("sku", in.SKU)
	rec.Set("name", in.Name)
	rec.Set("description", in.Description)
	rec.Set("category", in.Category)
	rec.Set("unit_price", in.UnitPrice)
	rec.Set("vat_rate", in.VATRate)
}

// HandleProductCreate creates a catalog product. The unique SKU index turns
// duplicates into a failed save.
// Route: POST /api/products
func HandleProductCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in productInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		col, err := app.FindCollectionByNameOrId("products")
		if err != nil {
			log.Printf("product_save: find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		in.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("product_save: create sku %q: %v", in.SKU, err)
			return apiError(e, http.StatusBadRequest, "Could not save product (is the SKU unique?)")
		}
		return e.JSON(http.StatusCreated, productResponse(rec))
	}
}

// HandleProductUpdate updates a product. Quotes that already left draft keep
// their frozen snapshots; draft quotes pick up the new values on their next
// recompute.
// Route: PUT /api/products/{id}
func HandleProductUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Product not found")
		}

		var in productInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		in.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("product_save: update %s: %v", rec.Id, err)
			return apiError(e, http.StatusBadRequest, "Could not save product (is the SKU unique?)")
		}
		return e.JSON(http.StatusOK, productResponse(rec))
	}
}
