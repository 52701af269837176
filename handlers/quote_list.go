package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuoteList returns quotations filtered by status, search term and the
// archive/delete visibility flags. Sorted newest first.
// Route: GET /api/quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		if status := strings.TrimSpace(query.Get("status")); status != "" {
			filters = append(filters, "status = {:status}")
			params["status"] = status
		}
		if q := strings.TrimSpace(query.Get("q")); q != "" {
			filters = append(filters, "(number ~ {:q} || customer_name ~ {:q})")
			params["q"] = q
		}

		records, err := app.FindRecordsByFilter(
			"quotations",
			strings.Join(filters, " && "),
			"-created",
			0,
			0,
			params,
		)
		if err != nil {
			log.Printf("quote_list: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load quotes")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, quoteResponse(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}
