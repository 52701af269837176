package handlers

import (
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

type transitionInput struct {
	Status string `json:"status"`
}

func (in transitionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Status, validation.Required, validation.In("draft", "sent", "confirmed")),
	)
}

// HandleQuoteTransition moves a quote to a new status, recording the actor
// in the status history.
// Route: POST /api/quotes/{id}/status
func HandleQuoteTransition(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		var in transitionInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		err = services.Transition(app, GetIdentity(e.Request), quote, services.QuoteStatus(in.Status))
		if err != nil {
			if errors.Is(err, services.ErrInvalidTransition) {
				return apiError(e, http.StatusConflict, err.Error())
			}
			log.Printf("quote_transition: %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Could not change quote status")
		}
		return e.JSON(http.StatusOK, quoteResponse(quote))
	}
}
