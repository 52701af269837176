package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// validateDraftInput checks the structural rules of a draft payload before
// it reaches the lifecycle service. Creation additionally requires the
// customer and at least one line item; a quote of nothing is a validation
// error, not an empty document.
func validateDraftInput(in services.QuoteDraftInput, creating bool) error {
	customerRules := []validation.Rule{}
	itemRules := []validation.Rule{}
	if creating {
		customerRules = append(customerRules, validation.Required)
		itemRules = append(itemRules, validation.Required)
	}
	itemRules = append(itemRules, validation.Each(validation.By(func(value any) error {
		item, _ := value.(services.QuoteItemInput)
		return validation.ValidateStruct(&item,
			validation.Field(&item.Quantity, validation.Required, validation.Min(0.0).Exclusive()),
		)
	})))
	return validation.ValidateStruct(&in,
		validation.Field(&in.CustomerID, customerRules...),
		validation.Field(&in.Items, itemRules...),
	)
}

// HandleQuoteCreate drafts a new quotation.
// Route: POST /api/quotes
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.QuoteDraftInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := validateDraftInput(in, true); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		quote, err := services.DraftQuote(app, GetIdentity(e.Request), in)
		if err != nil {
			log.Printf("quote_create: %v", err)
			return apiError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusCreated, quoteResponse(quote))
	}
}
