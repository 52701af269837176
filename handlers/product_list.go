package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProductList returns catalog products, filtered by an optional search
// term and category. Same visibility rules as the customer list.
// Route: GET /api/products
func HandleProductList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()

		filters := []string{}
		params := map[string]any{}

		if query.Get("deleted") == "true" {
			filters = append(filters, "deleted = true")
		} else {
			filters = append(filters, "deleted = false")
			if query.Get("archived") != "true" {
				filters = append(filters, "is_archived = false")
			}
		}

		if q := strings.TrimSpace(query.Get("q")); q != "" {
			filters = append(filters, "(sku ~ {:q} || name ~ {:q} || description ~ {:q})")
			params["q"] = q
		}
		if category := strings.TrimSpace(query.Get("category")); category != "" {
			filters = append(filters, "category = {:category}")
			params["category"] = category
		}

		records, err := app.FindRecordsByFilter(
			"products",
			strings.Join(filters, " && "),
			"name",
			0,
			0,
			params,
		)
		if err != nil {
			log.Printf("product_list: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load products")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, productResponse(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleProductGet returns one product.
// Route: GET /api/products/{id}
func HandleProductGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Product not found")
		}
		return e.JSON(http.StatusOK, productResponse(rec))
	}
}
