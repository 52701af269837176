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

// HandleProductDelete soft-deletes a product. Products referenced by active
// quotes are protected; the error names the blocking quote numbers.
// Route: DELETE /api/products/{id}
func HandleProductDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionDelete) {
			return apiError(e, http.StatusForbidden, "You do not have permission to delete products")
		}

		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Product not found")
		}
		if rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "Product is already deleted")
		}

		numbers, err := services.ActiveQuoteNumbersForProduct(app, rec.Id)
		if err != nil {
			log.Printf("product_delete: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if len(numbers) > 0 {
			return apiError(e, http.StatusConflict,
				fmt.Sprintf("Product is used by active quotes: %s", strings.Join(numbers, ", ")))
		}

		rec.Set("deleted", true)
		rec.Set("deleted_at", time.Now().UTC())
		if err := app.Save(rec); err != nil {
			log.Printf("product_delete: save %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not delete product")
		}
		return e.JSON(http.StatusOK, productResponse(rec))
	}
}

// HandleProductRestore clears the soft-delete flag.
// Route: POST /api/products/{id}/restore
func HandleProductRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionRestore) {
			return apiError(e, http.StatusForbidden, "You do not have permission to restore products")
		}

		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Product not found")
		}
		if !rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "Product is not deleted")
		}

		rec.Set("deleted", false)
		rec.Set("deleted_at", nil)
		if err := app.Save(rec); err != nil {
			log.Printf("product_delete: restore %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not restore product")
		}
		return e.JSON(http.StatusOK, productResponse(rec))
	}
}

// HandleProductArchive toggles the archive flag. Like delete, archiving is
// blocked while active quotes reference the product; the error names the
// blocking quote numbers.
// Route: POST /api/products/{id}/archive and /api/products/{id}/unarchive
func HandleProductArchive(app *pocketbase.PocketBase, archived bool) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionArchive) {
			return apiError(e, http.StatusForbidden, "You do not have permission to archive products")
		}

		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Product not found")
		}

		if archived {
			numbers, err := services.ActiveQuoteNumbersForProduct(app, rec.Id)
			if err != nil {
				log.Printf("product_delete: %v", err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			if len(numbers) > 0 {
				return apiError(e, http.StatusConflict,
					fmt.Sprintf("Product is used by active quotes: %s", strings.Join(numbers, ", ")))
			}
		}

		rec.Set("is_archived", archived)
		if err := app.Save(rec); err != nil {
			log.Printf("product_delete: archive %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not update product")
		}
		return e.JSON(http.StatusOK, productResponse(rec))
	}
}
