package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleUserList returns user accounts, filtered by an optional search term.
// Soft-deleted accounts are hidden unless deleted=true is passed. Only the
// manage-users capability may see the account list.
// Route: GET /api/users
func HandleUserList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		query := e.Request.URL.Query()

		filters := []string{}
		params := map[string]any{}

		if query.Get("deleted") == "true" {
			filters = append(filters, "deleted = true")
		} else {
			filters = append(filters, "deleted = false")
		}

		if q := strings.TrimSpace(query.Get("q")); q != "" {
			filters = append(filters, "(name ~ {:q} || email ~ {:q})")
			params["q"] = q
		}

		records, err := app.FindRecordsByFilter(
			"users",
			strings.Join(filters, " && "),
			"email",
			0,
			0,
			params,
		)
		if err != nil {
			log.Printf("user_list: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load users")
		}

		items := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			items = append(items, userResponse(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleUserGet returns one user account.
// Route: GET /api/users/{id}
func HandleUserGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		rec, err := app.FindRecordById("users", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "User not found")
		}
		return e.JSON(http.StatusOK, userResponse(rec))
	}
}
