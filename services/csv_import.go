package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ImportRowError represents a single field-level error on one row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportRow is one validated product row from an uploaded file.
type ImportRow struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ImportResult summarizes a product import batch. Rows that fail
// validation or saving are reported individually; valid rows are still
// applied — partial success is deliberate.
type ImportResult struct {
	TotalRows int              `json:"total_rows"`
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors"`
}

// requiredImportColumns are the headers every product file must carry.
var requiredImportColumns = []string{"productcode", "productdescription", "price"}

// ProductCSVTemplate returns the downloadable CSV template with the
// required columns and two example rows.
func ProductCSVTemplate() string {
	return "productcode,productdescription,price,\"Product Category\"\n" +
		"P24016353,\"Calendar CANNA 2026\",0,\"Other / Promo\"\n" +
		"0130050,\"CANNA Terra Professional Plus 50L\",\"12,52\",\"Medium / Medium TERRA\"\n"
}

// ParseProductCSV reads and validates an uploaded product CSV. Rows with
// missing required fields or a non-numeric price are collected as per-row
// errors; parsing continues so the caller can report the full batch.
func ParseProductCSV(file io.Reader) ([]ImportRow, []ImportRowError, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, key string) string {
		idx, ok := colIndex[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportRow
	var errs []ImportRowError

	for i, raw := range allRows[1:] {
		rowNum := i + 2 // 1-indexed, +1 for header row

		sku := cell(raw, "productcode")
		name := cell(raw, "productdescription")
		priceStr := cell(raw, "price")

		var rowErrs []ImportRowError
		if sku == "" {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Field: "productcode", Message: "productcode is required"})
		}
		if name == "" {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Field: "productdescription", Message: "productdescription is required"})
		}

		var price float64
		if priceStr == "" {
			rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Field: "price", Message: "price is required"})
		} else {
			// European exports commonly use a comma decimal separator.
			normalized := strings.ReplaceAll(priceStr, ",", ".")
			parsed, err := cast.ToFloat64E(normalized)
			if err != nil {
				rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Field: "price", Message: fmt.Sprintf("invalid price format: %q", priceStr)})
			} else if parsed < 0 {
				rowErrs = append(rowErrs, ImportRowError{Row: rowNum, Field: "price", Message: "price must not be negative"})
			} else {
				price = parsed
			}
		}

		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}

		rows = append(rows, ImportRow{
			SKU:      sku,
			Name:     name,
			Category: cell(raw, "product category"),
			Price:    price,
		})
	}

	return rows, errs, nil
}

// ImportProducts upserts the validated rows by SKU: an existing product is
// updated in place, otherwise a new one is created. Rows are processed
// sequentially and a save failure only fails that row.
func ImportProducts(app *pocketbase.PocketBase, rows []ImportRow, parseErrors []ImportRowError) (*ImportResult, error) {
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return nil, fmt.Errorf("find products collection: %w", err)
	}

	result := &ImportResult{
		TotalRows: len(rows) + countErrorRows(parseErrors),
		Errors:    parseErrors,
	}
	result.Failed = countErrorRows(parseErrors)

	for i, row := range rows {
		existing, _ := app.FindFirstRecordByFilter(
			"products",
			"sku = {:sku}",
			map[string]any{"sku": row.SKU},
		)

		var rec *core.Record
		if existing != nil {
			rec = existing
		} else {
			rec = core.NewRecord(productsCol)
			rec.Set("sku", row.SKU)
		}
		rec.Set("name", row.Name)
		rec.Set("description", row.Name)
		if row.Category != "" {
			rec.Set("category", row.Category)
		}
		rec.Set("unit_price", row.Price)

		if err := app.Save(rec); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Row:     i + 2,
				Field:   "sku",
				Message: fmt.Sprintf("could not save product %q: %v", row.SKU, err),
			})
			continue
		}
		if existing != nil {
			result.Updated++
		} else {
			result.Created++
		}
	}

	return result, nil
}

// countErrorRows counts distinct rows among the per-field errors.
func countErrorRows(errs []ImportRowError) int {
	rows := make(map[int]bool)
	for _, e := range errs {
		rows[e.Row] = true
	}
	return len(rows)
}

// GenerateImportErrorReport creates a downloadable .xlsx file from import errors.
func GenerateImportErrorReport(errors []ImportRowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	// Header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
