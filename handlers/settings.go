package handlers

import (
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// settingsFields are the keys a PUT may write. The mail password is
// write-only: accepted here, never echoed back.
var settingsFields = []string{
	"company_name", "address", "email", "phone", "vat_number",
	"default_vat_rate",
	"mail_server", "mail_port", "mail_username", "mail_password",
	"mail_from", "mail_from_name", "mail_tls", "mail_ssl",
}

// settingsResponse maps the settings record to its API shape, excluding the
// mail password.
func settingsResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"company_name":     rec.GetString("company_name"),
		"address":          rec.GetString("address"),
		"email":            rec.GetString("email"),
		"phone":            rec.GetString("phone"),
		"vat_number":       rec.GetString("vat_number"),
		"default_vat_rate": rec.GetFloat("default_vat_rate"),
		"mail_server":      rec.GetString("mail_server"),
		"mail_port":        rec.GetInt("mail_port"),
		"mail_username":    rec.GetString("mail_username"),
		"mail_from":        rec.GetString("mail_from"),
		"mail_from_name":   rec.GetString("mail_from_name"),
		"mail_tls":         rec.GetBool("mail_tls"),
		"mail_ssl":         rec.GetBool("mail_ssl"),
	}
}

// HandleSettingsGet returns the company settings singleton.
// Route: GET /api/settings
func HandleSettingsGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.GetCompanySettings(app)
		if err != nil {
			log.Printf("settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load settings")
		}
		return e.JSON(http.StatusOK, settingsResponse(settings))
	}
}

// HandleSettingsUpdate applies the posted values onto the settings
// singleton. Unknown keys are ignored; an empty mail_password leaves the
// stored one untouched.
// Route: PUT /api/settings
func HandleSettingsUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionEditSettings) {
			return apiError(e, http.StatusForbidden, "You do not have permission to edit settings")
		}

		var body map[string]any
		if err := decodeJSON(e, &body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]any{}
		for _, key := range settingsFields {
			val, ok := body[key]
			if !ok {
				continue
			}
			if key == "mail_password" {
				if s, _ := val.(string); s == "" {
					continue
				}
			}
			fields[key] = val
		}

		settings, err := services.UpdateCompanySettings(app, fields)
		if err != nil {
			log.Printf("settings: update: %v", err)
			return apiError(e, http.StatusBadRequest, "Could not save settings")
		}
		return e.JSON(http.StatusOK, settingsResponse(settings))
	}
}

// HandleEmailConfigStatus reports which SMTP fields are configured without
// exposing their values.
// Route: GET /api/settings/email/status
func HandleEmailConfigStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.GetCompanySettings(app)
		if err != nil {
			log.Printf("settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load settings")
		}
		return e.JSON(http.StatusOK, services.EmailConfigFromSettings(settings).Status())
	}
}

type testEmailInput struct {
	Recipient string `json:"recipient"`
}

func (in testEmailInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Recipient, validation.Required, is.Email),
	)
}

// HandleTestEmail sends a short test message to verify the SMTP settings.
// Route: POST /api/settings/email/test
func HandleTestEmail(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := GetIdentity(e.Request)
		if !services.Can(identityRole(identity), services.ActionEditSettings) {
			return apiError(e, http.StatusForbidden, "You do not have permission to edit settings")
		}

		var in testEmailInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		settings, err := services.GetCompanySettings(app)
		if err != nil {
			log.Printf("settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load settings")
		}

		cfg := services.EmailConfigFromSettings(settings)
		if err := services.SendTestEmail(cfg, in.Recipient); err != nil {
			if errors.Is(err, services.ErrEmailNotConfigured) {
				return apiError(e, http.StatusBadRequest, "Email is not configured. Complete the SMTP settings first.")
			}
			log.Printf("settings: test email to %s: %v", in.Recipient, err)
			return apiError(e, http.StatusBadGateway, "Could not send the test email. Check the SMTP settings.")
		}
		return e.JSON(http.StatusOK, map[string]any{"sent": true, "recipient": in.Recipient})
	}
}
