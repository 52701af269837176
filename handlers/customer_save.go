package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type customerInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	VATNumber     string `json:"vat_number"`
}

func (in customerInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, is.Email),
	)
}

func (in customerInput) apply(rec *core.Record) {
	rec.Set("name", in.Name)
	rec.Set("email", in.Email)
	rec.Set("phone", in.Phone)
	rec.Set("address", in.Address)
	rec.Set("contact_person", in.ContactPerson)
	rec.Set("vat_number", in.VATNumber)
}

// HandleCustomerCreate creates a customer.
// Route: POST /api/customers
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in customerInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customer_save: find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		in.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_save: create: %v", err)
			return apiError(e, http.StatusBadRequest, "Could not save customer")
		}
		return e.JSON(http.StatusCreated, customerResponse(rec))
	}
}

// HandleCustomerUpdate updates an existing customer. Edits do not touch the
// snapshots on existing quotes.
// Route: PUT /api/customers/{id}
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Customer not found")
		}

		var in customerInput
		if err := decodeJSON(e, &in); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := in.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		in.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_save: update %s: %v", rec.Id, err)
			return apiError(e, http.StatusBadRequest, "Could not save customer")
		}
		return e.JSON(http.StatusOK, customerResponse(rec))
	}
}
