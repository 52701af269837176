package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// QuoteRegisterRow is one line of the quote register export.
type QuoteRegisterRow struct {
	Number       string
	CustomerName string
	Status       string
	Date         string
	Subtotal     float64
	Discount     float64
	VATAmount    float64
	Total        float64
}

// BuildQuoteRegister collects non-deleted quotations into export rows,
// newest first. Totals are recomputed from the stored line items so the
// register can never disagree with the on-screen figures.
func BuildQuoteRegister(app *pocketbase.PocketBase) ([]QuoteRegisterRow, error) {
	records, err := app.FindRecordsByFilter(
		"quotations",
		"deleted = false",
		"-created",
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("load quotations: %w", err)
	}

	rows := make([]QuoteRegisterRow, 0, len(records))
	for _, quote := range records {
		totals, err := QuoteTotals(app, quote)
		if err != nil {
			return nil, err
		}
		rows = append(rows, QuoteRegisterRow{
			Number:       quote.GetString("number"),
			CustomerName: quote.GetString("customer_name"),
			Status:       quote.GetString("status"),
			Date:         FormatDate(quote.GetDateTime("created").Time()),
			Subtotal:     Round2(totals.Subtotal),
			Discount:     Round2(totals.DiscountAmount),
			VATAmount:    Round2(totals.VATAmount),
			Total:        Round2(totals.Total),
		})
	}
	return rows, nil
}

// GenerateQuoteRegisterExcel creates an .xlsx workbook from the register rows.
func GenerateQuoteRegisterExcel(rows []QuoteRegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotations"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	widths := []float64{14, 32, 12, 14, 12, 12, 12, 12}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheet, colRef, colRef, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colRef, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	headers := []string{"Number", "Customer", "Status", "Date", "Subtotal", "Discount", "VAT", "Total"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s1", columns[i]), h)
	}
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	for i, r := range rows {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), r.Number)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), r.CustomerName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), r.Date)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), r.Subtotal)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), r.Discount)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), r.VATAmount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), r.Total)
		f.SetCellStyle(sheet, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("H%d", rowNum), moneyStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write register export: %w", err)
	}
	return buf.Bytes(), nil
}
