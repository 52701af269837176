package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

type userInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (in userInput) validate(creating bool) error {
	passwordRules := []validation.Rule{validation.Length(8, 72)}
	if creating {
		passwordRules = append([]validation.Rule{validation.Required}, passwordRules...)
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Role, validation.Required, validation.In("admin", "manager", "user")),
		validation.Field(&in.Password, passwordRules...),
	)
}

// HandleUserCreate creates a user account.
// Route: POST /api/users
func HandleUserCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		var in userInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.validate(true); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		col, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			log.Printf("user_save: find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		rec.Set("email", in.Email)
		rec.Set("name", in.Name)
		rec.Set("role", in.Role)
		rec.Set("password", in.Password)
		rec.Set("verified", true)
		if err := app.Save(rec); err != nil {
			log.Printf("user_save: create: %v", err)
			return apiError(e, http.StatusBadRequest, "Could not save user (is the email unique?)")
		}
		return e.JSON(http.StatusCreated, userResponse(rec))
	}
}

// HandleUserUpdate updates an account's email, name and role. A non-empty
// password changes the password; an empty one leaves it untouched.
// Route: PUT /api/users/{id}
func HandleUserUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionManageUsers) {
			return apiError(e, http.StatusForbidden, "You do not have permission to manage users")
		}

		rec, err := app.FindRecordById("users", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "User not found")
		}

		var in userInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.validate(false); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		// Admins keep their own capability; demoting yourself would lock the
		// last admin out mid-session.
		if identity != nil && identity.ID == rec.Id && in.Role != string(services.RoleAdmin) {
			return apiError(e, http.StatusConflict, "You cannot change your own role")
		}

		rec.Set("email", in.Email)
		rec.Set("name", in.Name)
		rec.Set("role", in.Role)
		if in.Password != "" {
			rec.Set("password", in.Password)
		}
		if err := app.Save(rec); err != nil {
			log.Printf("user_save: update %s: %v", rec.Id, err)
			return apiError(e, http.StatusBadRequest, "Could not save user (is the email unique?)")
		}
		return e.JSON(http.StatusOK, userResponse(rec))
	}
}
