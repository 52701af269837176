package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleQuoteDelete soft-deletes a draft quote.
// Route: DELETE /api/quotes/{id}
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		err = services.DeleteQuote(app, GetIdentity(e.Request), quote)
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			return apiError(e, http.StatusForbidden, "You do not have permission to delete quotes")
		case errors.Is(err, services.ErrQuoteNotDraft):
			return apiError(e, http.StatusConflict, "Only draft quotes can be deleted")
		case errors.Is(err, services.ErrAlreadyDeleted):
			return apiError(e, http.StatusConflict, "Quote is already deleted")
		case err != nil:
			log.Printf("quote_delete: %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not delete quote")
		}
		return e.JSON(http.StatusOK, quoteResponse(quote))
	}
}

// HandleQuoteRestore clears the soft-delete flag on a quote.
// Route: POST /api/quotes/{id}/restore
func HandleQuoteRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		err = services.RestoreQuote(app, GetIdentity(e.Request), quote)
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			return apiError(e, http.StatusForbidden, "You do not have permission to restore quotes")
		case errors.Is(err, services.ErrNotDeleted):
			return apiError(e, http.StatusConflict, "Quote is not deleted")
		case err != nil:
			log.Printf("quote_delete: restore %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not restore quote")
		}
		return e.JSON(http.StatusOK, quoteResponse(quote))
	}
}

// HandleQuoteArchive toggles the archive flag. Archiving never changes the
// quote status.
// Route: POST /api/quotes/{id}/archive and /api/quotes/{id}/unarchive
func HandleQuoteArchive(app *pocketbase.PocketBase, archived bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		identity := GetIdentity(e.Request)
		if archived {
			err = services.ArchiveQuote(app, identity, quote)
		} else {
			err = services.UnarchiveQuote(app, identity, quote)
		}
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			return apiError(e, http.StatusForbidden, "You do not have permission to archive quotes")
		case err != nil:
			log.Printf("quote_delete: archive %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not update quote")
		}
		return e.JSON(http.StatusOK, quoteResponse(quote))
	}
}
