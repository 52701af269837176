package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleQuoteUpdate replaces the editable fields and line items of a draft
// quote. Quotes outside draft are rejected with a conflict.
// Route: PUT /api/quotes/{id}
func HandleQuoteUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		var in services.QuoteDraftInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := validateDraftInput(in, false); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		if err := services.UpdateDraft(app, GetIdentity(e.Request), quote, in); err != nil {
			if errors.Is(err, services.ErrQuoteNotDraft) {
				return apiError(e, http.StatusConflict, "Only draft quotes can be edited")
			}
			log.Printf("quote_edit: %s: %v", quote.Id, err)
			return apiError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, quoteResponse(quote))
	}
}
