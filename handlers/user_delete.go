package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleUserDelete soft-deletes a user account. Deleted accounts can no
// longer log in but stay in the store so status history actors keep
// resolving. Deleting your own account is blocked.
// Route: DELETE /api/users/{id}
func HandleUserDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		rec, err := app.FindRecordById("users", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "User not found")
		}
		if identity != nil && identity.ID == rec.Id {
			return apiError(e, http.StatusConflict, "You cannot delete your own account")
		}
		if rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "User is already deleted")
		}

		rec.Set("deleted", true)
		rec.Set("deleted_at", time.Now().UTC())
		if err := app.Save(rec); err != nil {
			log.Printf("user_delete: save %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not delete user")
		}
		return e.JSON(http.StatusOK, userResponse(rec))
	}
}

// HandleUserRestore clears the soft-delete flag.
// Route: POST /api/users/{id}/restore
func HandleUserRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		rec, err := app.FindRecordById("users", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "User not found")
		}
		if !rec.GetBool("deleted") {
			return apiError(e, http.StatusConflict, "User is not deleted")
		}

		rec.Set("deleted", false)
		rec.Set("deleted_at", nil)
		if err := app.Save(rec); err != nil {
			log.Printf("user_delete: restore %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not restore user")
		}
		return e.JSON(http.StatusOK, userResponse(rec))
	}
}
