package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleProductImportTemplate downloads the CSV template with the required
// columns and example rows.
// Route: GET /api/products/import/template
func HandleProductImportTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="products_template.csv"`)
		e.Response.Write([]byte(services.ProductCSVTemplate()))
		return nil
	}
}

// HandleProductImport receives a CSV upload, validates it and upserts the
// valid rows by SKU. Rows that fail validation are reported per row; the
// rest of the batch is still applied.
// Route: POST /api/products/import
func HandleProductImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Max 10MB upload.
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return apiError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		rows, rowErrors, err := services.ParseProductCSV(file)
		if err != nil {
			log.Printf("product_import: %v", err)
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		result, err := services.ImportProducts(app, rows, rowErrors)
		if err != nil {
			log.Printf("product_import: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, result)
	}
}

// HandleProductImportErrorReport downloads the posted import errors as an
// Excel file.
// Route: POST /api/products/import/errors
func HandleProductImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var importErrors []services.ImportRowError
		decoder := json.NewDecoder(e.Request.Body)
		if err := decoder.Decode(&importErrors); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateImportErrorReport(importErrors)
		if err != nil {
			log.Printf("product_import: error report: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
