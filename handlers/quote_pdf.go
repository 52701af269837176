package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

// HandleQuotePDF generates and downloads the printable quotation document.
// Route: GET /api/quotes/{id}/pdf
func HandleQuotePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		data, err := services.BuildQuoteDocumentData(app, quote)
		if err != nil {
			log.Printf("quote_pdf: failed to build data for %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to build quote data")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_pdf: failed to generate PDF for %s: %v", quote.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("%s.pdf", sanitizeFilename(data.Number))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// sanitizeFilename makes a quote number safe to use as a download name.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return replacer.Replace(name)
}
