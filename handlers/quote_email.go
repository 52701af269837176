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

type emailQuoteInput struct {
	Recipient string `json:"recipient"`
}

func (in emailQuoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Recipient, is.Email),
	)
}

// HandleQuoteEmail emails the quotation PDF to the recipient (defaulting to
// the customer snapshot email). A draft quote that is successfully sent
// moves to the sent status.
// Route: POST /api/quotes/{id}/email
func HandleQuoteEmail(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		var in emailQuoteInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		recipient := in.Recipient
		if recipient == "" {
			recipient = quote.GetString("customer_email")
		}
		if recipient == "" {
			return apiError(e, http.StatusBadRequest, "No recipient: the customer has no email address")
		}

		settings, err := services.GetCompanySettings(app)
		if err != nil {
			log.Printf("quote_email: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		cfg := services.EmailConfigFromSettings(settings)
		if !cfg.Status().FullyConfigured {
			return apiError(e, http.StatusBadRequest, "Email is not configured. Complete the SMTP settings first.")
		}

		data, err := services.BuildQuoteDocumentData(app, quote)
		if err != nil {
			log.Printf("quote_email: build data for %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to build quote data")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_email: generate PDF for %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		if err := services.SendQuotationEmail(cfg, recipient, data, pdfBytes); err != nil {
			if errors.Is(err, services.ErrEmailNotConfigured) {
				return apiError(e, http.StatusBadRequest, "Email is not configured. Complete the SMTP settings first.")
			}
			log.Printf("quote_email: send %s to %s: %v", quote.Id, recipient, err)
			return apiError(e, http.StatusBadGateway, "Could not send the email. Check the SMTP settings.")
		}

		// Sending a draft implies it went out to the customer.
		if services.QuoteStatus(quote.GetString("status")) == services.StatusDraft {
			if err := services.Transition(app, GetIdentity(e.Request), quote, services.StatusSent); err != nil {
				log.Printf("quote_email: transition %s to sent: %v", quote.Id, err)
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"sent":      true,
			"recipient": recipient,
			"quote":     quoteResponse(quote),
		})
	}
}
