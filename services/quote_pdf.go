package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pocketbase/pocketbase"
	pbcore "github.com/pocketbase/pocketbase/core"
)

// QuoteDocumentRow is one printable line of the quotation table.
type QuoteDocumentRow struct {
	Index       int
	Code        string
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

// QuoteDocumentData bundles everything the document renderer needs. Totals
// carries full precision; every figure is rounded independently at render.
type QuoteDocumentData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyVAT     string

	Number     string
	Date       string
	ValidUntil string

	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	CustomerVAT     string

	Rows   []QuoteDocumentRow
	Totals Totals

	DiscountType DiscountType
	Notes        string
	Terms        string
}

// BuildQuoteDocumentData assembles the render bundle for a persisted quote.
// Line descriptions prefer the frozen snapshots so historical documents are
// immune to later catalog edits; totals are recomputed from the line items.
func BuildQuoteDocumentData(app *pocketbase.PocketBase, quote *pbcore.Record) (*QuoteDocumentData, error) {
	settings, err := GetCompanySettings(app)
	if err != nil {
		return nil, err
	}

	itemRecords, err := FindQuoteItems(app, quote.Id)
	if err != nil {
		return nil, err
	}

	totals, err := QuoteTotals(app, quote)
	if err != nil {
		return nil, err
	}

	data := &QuoteDocumentData{
		CompanyName:     settings.GetString("company_name"),
		CompanyAddress:  settings.GetString("address"),
		CompanyEmail:    settings.GetString("email"),
		CompanyVAT:      settings.GetString("vat_number"),
		Number:          quote.GetString("number"),
		Date:            FormatDate(quote.GetDateTime("created").Time()),
		ValidUntil:      FormatDate(quote.GetDateTime("valid_until").Time()),
		CustomerName:    quote.GetString("customer_name"),
		CustomerAddress: quote.GetString("customer_address"),
		CustomerEmail:   quote.GetString("customer_email"),
		CustomerVAT:     quote.GetString("customer_vat_number"),
		Totals:          totals,
		DiscountType:    DiscountType(quote.GetString("discount_type")),
		Notes:           quote.GetString("notes"),
		Terms:           quote.GetString("terms_and_conditions"),
	}

	for i, rec := range itemRecords {
		description := rec.GetString("product_name_snapshot")
		if description == "" {
			description = rec.GetString("description")
		}
		data.Rows = append(data.Rows, QuoteDocumentRow{
			Index:       i + 1,
			Code:        rec.GetString("product_code_snapshot"),
			Description: description,
			Quantity:    rec.GetFloat("quantity"),
			UnitPrice:   rec.GetFloat("unit_price"),
			LineTotal:   LineTotal(LineItem{Quantity: rec.GetFloat("quantity"), UnitPrice: rec.GetFloat("unit_price")}),
		})
	}

	return data, nil
}

// GenerateQuotePDF creates the printable quotation document using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateQuotePDF(data *QuoteDocumentData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addCustomerBlock(m, data)
	addItemsTableHeader(m)
	for _, r := range data.Rows {
		addItemsTableRow(m, r)
	}
	addTotalsBlock(m, data)
	addNotesAndTerms(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds company identity on the left and the QUOTATION title
// with number and dates on the right.
func addQuoteHeader(m core.Maroto, data *QuoteDocumentData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("QUOTATION", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	subtle := props.Text{Size: 9, Align: align.Left, Color: &props.Color{Red: 80, Green: 80, Blue: 80}}
	subtleRight := subtle
	subtleRight.Align = align.Right

	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New(data.CompanyAddress, subtle)),
			col.New(6).Add(text.New(fmt.Sprintf("No: %s", data.Number), subtleRight)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(data.CompanyEmail, subtle)),
			col.New(6).Add(text.New(fmt.Sprintf("Date: %s", data.Date), subtleRight)),
		),
	)

	validity := ""
	if data.ValidUntil != "" {
		validity = fmt.Sprintf("Valid until: %s", data.ValidUntil)
	}
	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New(fmt.Sprintf("VAT %s", data.CompanyVAT), subtle)),
			col.New(6).Add(text.New(validity, subtleRight)),
		),
		row.New(3),
	)

	m.AddRows(row.New(2).Add(col.New(12).Add(line.New())))
	m.AddRows(row.New(3))
}

// addCustomerBlock prints the snapshot of the customer the quote was
// drafted for.
func addCustomerBlock(m core.Maroto, data *QuoteDocumentData) {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: &props.Color{Red: 120, Green: 120, Blue: 120}}
	value := props.Text{Size: 10, Align: align.Left}

	m.AddRows(
		row.New(5).Add(col.New(12).Add(text.New("CUSTOMER", label))),
		row.New(6).Add(col.New(12).Add(text.New(data.CustomerName, props.Text{Size: 11, Style: fontstyle.Bold}))),
	)
	if data.CustomerAddress != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(data.CustomerAddress, value))))
	}
	if data.CustomerEmail != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(data.CustomerEmail, value))))
	}
	if data.CustomerVAT != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(fmt.Sprintf("VAT %s", data.CustomerVAT), value))))
	}
	m.AddRows(row.New(4))
}

// addItemsTableHeader adds the column header row for the items table.
func addItemsTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Code", headerTextLeft)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Total", headerText)).WithStyle(&headerCell),
		),
	)
}

// addItemsTableRow adds one line item row.
func addItemsTableRow(m core.Maroto, r QuoteDocumentRow) {
	cell := props.Text{Size: 8, Align: align.Center}
	cellLeft := cell
	cellLeft.Align = align.Left
	cellRight := cell
	cellRight.Align = align.Right

	m.AddRows(
		row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), cell)),
			col.New(2).Add(text.New(r.Code, cellLeft)),
			col.New(4).Add(text.New(r.Description, cellLeft)),
			col.New(1).Add(text.New(humanizeQty(r.Quantity), cell)),
			col.New(2).Add(text.New(FormatEUR(r.UnitPrice), cellRight)),
			col.New(2).Add(text.New(FormatEUR(r.LineTotal), cellRight)),
		),
	)
}

// addTotalsBlock prints subtotal, discount, taxable total, VAT and grand
// total, each rounded independently from the unrounded Totals fields.
func addTotalsBlock(m core.Maroto, data *QuoteDocumentData) {
	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}
	bold := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(row.New(4))
	m.AddRows(
		row.New(5).Add(
			col.New(8),
			col.New(2).Add(text.New("Subtotal", label)),
			col.New(2).Add(text.New(FormatEUR(data.Totals.Subtotal), value)),
		),
	)

	if data.DiscountType != DiscountNone && data.Totals.DiscountAmount != 0 {
		m.AddRows(
			row.New(5).Add(
				col.New(8),
				col.New(2).Add(text.New("Discount", label)),
				col.New(2).Add(text.New("-"+FormatEUR(data.Totals.DiscountAmount), value)),
			),
			row.New(5).Add(
				col.New(8),
				col.New(2).Add(text.New("Taxable", label)),
				col.New(2).Add(text.New(FormatEUR(data.Totals.TaxableTotal), value)),
			),
		)
	}

	m.AddRows(
		row.New(5).Add(
			col.New(8),
			col.New(2).Add(text.New(fmt.Sprintf("VAT (%s)", FormatPercent(data.Totals.VATRate)), label)),
			col.New(2).Add(text.New(FormatEUR(data.Totals.VATAmount), value)),
		),
		row.New(8).Add(
			col.New(8),
			col.New(2).Add(text.New("TOTAL", bold)),
			col.New(2).Add(text.New(FormatEUR(data.Totals.Total), bold)),
		),
	)
}

// addNotesAndTerms prints the free-text sections when present.
func addNotesAndTerms(m core.Maroto, data *QuoteDocumentData) {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: &props.Color{Red: 120, Green: 120, Blue: 120}}
	value := props.Text{Size: 9, Align: align.Left}

	if data.Notes != "" {
		m.AddRows(
			row.New(4),
			row.New(5).Add(col.New(12).Add(text.New("NOTES", label))),
			row.New(8).Add(col.New(12).Add(text.New(data.Notes, value))),
		)
	}
	if data.Terms != "" {
		m.AddRows(
			row.New(4),
			row.New(5).Add(col.New(12).Add(text.New("TERMS & CONDITIONS", label))),
			row.New(8).Add(col.New(12).Add(text.New(data.Terms, value))),
		)
	}
}

// humanizeQty renders a quantity without trailing zeros (2 → "2", 1.5 → "1.5").
func humanizeQty(qty float64) string {
	return fmt.Sprintf("%g", qty)
}
