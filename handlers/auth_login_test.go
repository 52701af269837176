package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quotemanagement/testhelpers"
)

func TestHandleLogin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "manager@example.com", "s3cret-pass", "manager")
	handler := HandleLogin(app)

	t.Run("valid credentials", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPost, "/api/auth/login",
			`{"email":"manager@example.com","password":"s3cret-pass"}`)
		rec := httptest.NewRecorder()

		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if token, _ := body["token"].(string); token == "" {
			t.Error("response has no token")
		}
		user, _ := body["user"].(map[string]any)
		if user["email"] != "manager@example.com" || user["role"] != "manager" {
			t.Errorf("user = %v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPost, "/api/auth/login",
			`{"email":"manager@example.com","password":"nope"}`)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", `{not json`)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
