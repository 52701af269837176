package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotemanagement/testhelpers"
)

// newUploadRequest builds a multipart request carrying a CSV file.
func newUploadRequest(t *testing.T, target, csvContent string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvContent)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleProductImport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProduct(t, app, "0130050", "Old Description", 10)
	handler := HandleProductImport(app)

	t.Run("imports and upserts", func(t *testing.T) {
		csvContent := "productcode,productdescription,price\n" +
			"0130050,\"CANNA Terra Professional Plus 50L\",\"12,52\"\n" +
			"NEW-1,\"Brand New Product\",7\n"

		req := newUploadRequest(t, "/api/products/import", csvContent)
		rec := httptest.NewRecorder()

		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["created"] != float64(1) || body["updated"] != float64(1) {
			t.Errorf("result = %v, want 1 created / 1 updated", body)
		}

		updated, err := app.FindFirstRecordByFilter("products", "sku = {:sku}", map[string]any{"sku": "0130050"})
		if err != nil {
			t.Fatalf("find product: %v", err)
		}
		if got := updated.GetFloat("unit_price"); got != 12.52 {
			t.Errorf("unit_price = %v, want 12.52", got)
		}
	})

	t.Run("missing columns rejected", func(t *testing.T) {
		req := newUploadRequest(t, "/api/products/import", "a,b\n1,2\n")
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("partial success reports row errors", func(t *testing.T) {
		csvContent := "productcode,productdescription,price\n" +
			"GOOD-1,\"Fine\",5\n" +
			",\"No code\",5\n"

		req := newUploadRequest(t, "/api/products/import", csvContent)
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["failed"] != float64(1) {
			t.Errorf("failed = %v, want 1", body["failed"])
		}
		errs, _ := body["errors"].([]any)
		if len(errs) == 0 {
			t.Error("expected per-row errors in response")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products/import", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
		rec := httptest.NewRecorder()

		handler(newTestRequestEvent(app, req, rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleProductImportTemplate(t *testing.T) {
	handler := HandleProductImportTemplate()
	req := httptest.NewRequest(http.MethodGet, "/api/products/import/template", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("content type = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "productcode,productdescription,price") {
		t.Errorf("template body = %q", rec.Body.String())
	}
}

func TestHandleProductImportErrorReport(t *testing.T) {
	handler := HandleProductImportErrorReport()
	req := newJSONRequest(t, http.MethodPost, "/api/products/import/errors",
		`[{"row":3,"field":"price","message":"invalid price format"}]`)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("response is not a valid xlsx file")
	}
}
