package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleQuoteRegisterExport downloads the quote register as an Excel file.
// Route: GET /api/quotes/export
func HandleQuoteRegisterExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, err := services.BuildQuoteRegister(app)
		if err != nil {
			log.Printf("quote_export: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to build quote register")
		}

		xlsxBytes, err := services.GenerateQuoteRegisterExcel(rows)
		if err != nil {
			log.Printf("quote_export: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate export")
		}

		filename := fmt.Sprintf("Quotes_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
