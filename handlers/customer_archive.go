package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleCustomerArchive toggles the archive flag on a customer. Archiving
// hides the customer from pickers without touching existing quotes.
// Route: POST /api/customers/{id}/archive and /api/customers/{id}/unarchive
func HandleCustomerArchive(app *pocketbase.PocketBase, archived bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionArchive) {
			return apiError(e, http.StatusForbidden, "You do not have permission to archive customers")
		}

		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Customer not found")
		}

		rec.Set("is_archived", archived)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_archive: save %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not update customer")
		}
		return e.JSON(http.StatusOK, customerResponse(rec))
	}
}
