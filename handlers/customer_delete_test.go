package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotemanagement/testhelpers"
)

func TestHandleCustomerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleCustomerDelete(app)

	t.Run("requires delete capability", func(t *testing.T) {
		customer := testhelpers.CreateTestCustomer(t, app, "Customer A")
		req := asUser(httptest.NewRequest(http.MethodDelete, "/api/customers/"+customer.Id, nil))
		req.SetPathValue("id", customer.Id)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("blocked by active quote", func(t *testing.T) {
		customer := testhelpers.CreateTestCustomer(t, app, "Customer B")
		testhelpers.CreateTestQuote(t, app, customer.Id, "QUO2026/0042")

		req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/customers/"+customer.Id, nil))
		req.SetPathValue("id", customer.Id)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "QUO2026/0042") {
			t.Errorf("error should name the blocking quote: %s", rec.Body.String())
		}
	})

	t.Run("soft deletes as admin", func(t *testing.T) {
		customer := testhelpers.CreateTestCustomer(t, app, "Customer C")
		req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/customers/"+customer.Id, nil))
		req.SetPathValue("id", customer.Id)
		rec := httptest.NewRecorder()

		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["deleted"] != true {
			t.Error("deleted flag not set in response")
		}

		reloaded, err := app.FindRecordById("customers", customer.Id)
		if err != nil {
			t.Fatalf("record should still exist after soft delete: %v", err)
		}
		if !reloaded.GetBool("deleted") {
			t.Error("deleted flag not persisted")
		}
	})
}

func TestHandleCustomerRestore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Customer D")
	customer.Set("deleted", true)
	if err := app.Save(customer); err != nil {
		t.Fatalf("save customer: %v", err)
	}
	handler := HandleCustomerRestore(app)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/customers/"+customer.Id+"/restore", nil))
	req.SetPathValue("id", customer.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["deleted"] != false {
		t.Error("deleted flag should be cleared")
	}
}
