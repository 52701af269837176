package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleCustomerDelete soft-deletes a customer. Customers referenced by
// active (non-deleted, non-archived) quotes are protected; the error names
// the blocking quote numbers.
// Route: DELETE /api/customers/{id}
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionDelete) {
			return apiError(e, http.StatusForbidden, "You do not have permission to delete customers")
		}

		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Customer not found")
		}
		if rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "Customer is already deleted")
		}

		numbers, err := activeQuoteNumbersForCustomer(app, rec.Id)
		if err != nil {
			log.Printf("customer_delete: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if len(numbers) > 0 {
			return apiError(e, http.StatusConflict,
				fmt.Sprintf("Customer is used by active quotes: %s", strings.Join(numbers, ", ")))
		}

		rec.Set("deleted", true)
		rec.Set("deleted_at", time.Now().UTC())
		if err := app.Save(rec); err != nil {
			log.Printf("customer_delete: save %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not delete customer")
		}
		return e.JSON(http.StatusOK, customerResponse(rec))
	}
}

// HandleCustomerRestore clears the soft-delete flag.
// Route: POST /api/customers/{id}/restore
func HandleCustomerRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionRestore) {
			return apiError(e, http.StatusForbidden, "You do not have permission to restore customers")
		}

		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Customer not found")
		}
		if !rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "Customer is not deleted")
		}

		rec.Set("deleted", false)
		rec.Set("deleted_at", nil)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_delete: restore %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not restore customer")
		}
		return e.JSON(http.StatusOK, customerResponse(rec))
	}
}

// activeQuoteNumbersForCustomer returns the numbers of non-deleted,
// non-archived quotes referencing the customer.
func activeQuoteNumbersForCustomer(app *pocketbase.PocketBase, customerID string) ([]string, error) {
	records, err := app.FindRecordsByFilter(
		"quotations",
		"customer = {:customerId} && deleted = false && is_archived = false",
		"number",
		0,
		0,
		map[string]any{"customerId": customerID},
	)
	if err != nil {
		return nil, fmt.Errorf("load referencing quotes: %w", err)
	}
	numbers := make([]string, 0, len(records))
	for _, q := range records {
		numbers = append(numbers, q.GetString("number"))
	}
	return numbers, nil
}

// identityRole maps a possibly-nil identity to its role.
func identityRole(identity *services.Identity) services.Role {
	if identity == nil {
		return services.RoleUser
	}
	return identity.Role
}
