package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleCustomerList returns customers, filtered by an optional search term.
// Soft-deleted rows are hidden unless deleted=true is passed; archived rows
// are hidden unless archived=true is passed.
// Route: GET /api/customers
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			filters = append(filters, "(name ~ {:q} || email ~ {:q} || vat_number ~ {:q})")
			params["q"] = q
		}

		records, err := app.FindRecordsByFilter(
			"customers",
			strings.Join(filters, " && "),
			"name",
			0,
			0,
			params,
		)
		if err != nil {
			log.Printf("customer_list: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load customers")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, customerResponse(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleCustomerGet returns one customer.
// Route: GET /api/customers/{id}
func HandleCustomerGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Customer not found")
		}
		return e.JSON(http.StatusOK, customerResponse(rec))
	}
}
