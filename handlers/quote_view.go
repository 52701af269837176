package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleQuoteView returns one quotation with its line items.
// Route: GET /api/quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		itemRecords, err := services.FindQuoteItems(app, quote.Id)
		if err != nil {
			log.Printf("quote_view: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load quote items")
		}

		response := quoteResponse(quote)
		items := make([]map[string]any, 0, len(itemRecords))
		for _, rec := range itemRecords {
			items = append(items, quoteItemResponse(rec))
		}
		response["items"] = items

		return e.JSON(http.StatusOK, response)
	}
}
