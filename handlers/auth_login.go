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

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in loginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
}

// HandleLogin verifies credentials and issues an auth token.
// Route: POST /api/auth/login
func HandleLogin(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in loginInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		identity, record, err := services.Authenticate(app, in.Email, in.Password)
		if err != nil {
			return apiError(e, http.StatusUnauthorized, "Invalid email or password")
		}

		token, err := record.NewAuthToken()
		if err != nil {
			log.Printf("auth_login: failed to issue token for %s: %v", in.Email, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"token": token,
			"user":  identity,
		})
	}
}
