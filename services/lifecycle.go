package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// QuoteStatus is the lifecycle state of a quotation.
type QuoteStatus string

const (
	StatusDraft     QuoteStatus = "draft"
	StatusSent      QuoteStatus = "sent"
	StatusConfirmed QuoteStatus = "confirmed"
)

// StatusChange is one entry of a quotation's status history.
type StatusChange struct {
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
}

var (
	ErrQuoteNotDraft     = errors.New("quote is not in draft status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAlreadyDeleted    = errors.New("quote already deleted")
	ErrNotDeleted        = errors.New("quote is not deleted")
)

// allowedTransitions: draft→sent, draft→confirmed, sent→confirmed, and an
// explicit revert to draft from any state (re-opens editability).
// Archiving is an orthogonal flag, not a status.
var allowedTransitions = map[QuoteStatus][]QuoteStatus{
	StatusDraft:     {StatusSent, StatusConfirmed},
	StatusSent:      {StatusConfirmed, StatusDraft},
	StatusConfirmed: {StatusDraft},
}

// CanTransition reports whether from → to is a permitted status change.
func CanTransition(from, to QuoteStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// QuoteItemInput is one line item of a draft payload. ProductID is
// optional; when set, missing unit price, VAT rate and description are
// seeded from the product record.
type QuoteItemInput struct {
	ProductID   string   `json:"product_id"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	VATRate     *float64 `json:"vat_rate"`
}

// QuoteDraftInput is the payload for creating or updating a draft quote.
type QuoteDraftInput struct {
	CustomerID string           `json:"customer_id"`
	Items      []QuoteItemInput `json:"items"`
	Discount   DiscountSpec     `json:"discount"`
	VATRate    *float64         `json:"vat_rate"`
	Notes      string           `json:"notes"`
	Terms      string           `json:"terms_and_conditions"`
	ValidUntil string           `json:"valid_until"`
}

// DraftQuote creates a new quotation in draft status: it snapshots the
// customer contact fields, resolves the VAT rate (payload value or the
// company default), generates the quotation number, computes totals through
// the single totals engine and persists the quote with its items.
func DraftQuote(app *pocketbase.PocketBase, actor *Identity, in QuoteDraftInput) (*core.Record, error) {
	customer, err := app.FindRecordById("customers", in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if customer.GetBool("deleted") {
		return nil, fmt.Errorf("customer %q is deleted", customer.GetString("name"))
	}

	items, err := resolveItems(app, in.Items)
	if err != nil {
		return nil, err
	}

	vatRate, err := resolveVATRate(app, in.VATRate)
	if err != nil {
		return nil, err
	}

	number, err := GenerateQuoteNumber(app, time.Now())
	if err != nil {
		return nil, err
	}

	quotesCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return nil, fmt.Errorf("find quotations collection: %w", err)
	}

	quote := core.NewRecord(quotesCol)
	quote.Set("number", number)
	quote.Set("customer", customer.Id)
	quote.Set("customer_name", customer.GetString("name"))
	quote.Set("customer_email", customer.GetString("email"))
	quote.Set("customer_phone", customer.GetString("phone"))
	quote.Set("customer_address", customer.GetString("address"))
	quote.Set("customer_vat_number", customer.GetString("vat_number"))
	quote.Set("status", string(StatusDraft))
	quote.Set("discount_type", string(normalizeDiscountType(in.Discount.Type)))
	quote.Set("discount_value", in.Discount.Value)
	quote.Set("vat_rate", vatRate)
	quote.Set("notes", in.Notes)
	quote.Set("terms_and_conditions", in.Terms)
	quote.Set("valid_until", in.ValidUntil)
	quote.Set("status_history", []StatusChange{})

	applyTotals(quote, ComputeTotals(items, in.Discount, vatRate))

	if err := app.Save(quote); err != nil {
		return nil, fmt.Errorf("save quote: %w", err)
	}

	if err := saveItems(app, quote.Id, items); err != nil {
		return nil, err
	}
	return quote, nil
}

// UpdateDraft replaces the editable fields and line items of a draft quote
// and recomputes its totals. Quotes outside draft are lifecycle-pinned.
func UpdateDraft(app *pocketbase.PocketBase, actor *Identity, quote *core.Record, in QuoteDraftInput) error {
	if QuoteStatus(quote.GetString("status")) != StatusDraft {
		return ErrQuoteNotDraft
	}

	if in.CustomerID != "" && in.CustomerID != quote.GetString("customer") {
		customer, err := app.FindRecordById("customers", in.CustomerID)
		if err != nil {
			return fmt.Errorf("customer not found: %w", err)
		}
		quote.Set("customer", customer.Id)
		quote.Set("customer_name", customer.GetString("name"))
		quote.Set("customer_email", customer.GetString("email"))
		quote.Set("customer_phone", customer.GetString("phone"))
		quote.Set("customer_address", customer.GetString("address"))
		quote.Set("customer_vat_number", customer.GetString("vat_number"))
	}

	items, err := resolveItems(app, in.Items)
	if err != nil {
		return err
	}

	vatRate, err := resolveVATRate(app, in.VATRate)
	if err != nil {
		return err
	}

	quote.Set("discount_type", string(normalizeDiscountType(in.Discount.Type)))
	quote.Set("discount_value", in.Discount.Value)
	quote.Set("vat_rate", vatRate)
	quote.Set("notes", in.Notes)
	quote.Set("terms_and_conditions", in.Terms)
	quote.Set("valid_until", in.ValidUntil)

	applyTotals(quote, ComputeTotals(items, in.Discount, vatRate))

	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save quote: %w", err)
	}

	// Replace line items wholesale; the quote owns them exclusively.
	existing, err := FindQuoteItems(app, quote.Id)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if err := app.Delete(rec); err != nil {
			return fmt.Errorf("delete old item: %w", err)
		}
	}
	return saveItems(app, quote.Id, items)
}

// Transition moves a quote to a new status. It appends exactly one status
// history entry, freezes product name/code snapshots on the first departure
// from draft, and recomputes totals from the current line items before
// persisting. Totals are never hand-edited independently of their inputs.
// Soft-deleted quotes are frozen until restored.
func Transition(app *pocketbase.PocketBase, actor *Identity, quote *core.Record, to QuoteStatus) error {
	if quote.GetBool("deleted") {
		return fmt.Errorf("%w: quote is deleted", ErrInvalidTransition)
	}
	from := QuoteStatus(quote.GetString("status"))
	if from == to {
		return fmt.Errorf("%w: quote is already %s", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}

	itemRecords, err := FindQuoteItems(app, quote.Id)
	if err != nil {
		return err
	}

	if from == StatusDraft {
		if err := freezeSnapshots(app, itemRecords); err != nil {
			return err
		}
	}

	var history []StatusChange
	if err := quote.UnmarshalJSONField("status_history", &history); err != nil {
		history = nil
	}
	history = append(history, StatusChange{
		Timestamp:  time.Now().UTC(),
		Actor:      actorEmail(actor),
		FromStatus: string(from),
		ToStatus:   string(to),
	})

	quote.Set("status", string(to))
	quote.Set("status_history", history)

	applyTotals(quote, totalsFromRecords(quote, itemRecords))

	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	return nil
}

// DeleteQuote soft-deletes a quote. Only drafts may be deleted, and only by
// a role holding the delete capability.
func DeleteQuote(app *pocketbase.PocketBase, actor *Identity, quote *core.Record) error {
	if !Can(actorRole(actor), ActionDelete) {
		return ErrPermissionDenied
	}
	if QuoteStatus(quote.GetString("status")) != StatusDraft {
		return fmt.Errorf("%w: only draft quotes can be deleted", ErrQuoteNotDraft)
	}
	if quote.GetBool("deleted") {
		return ErrAlreadyDeleted
	}
	quote.Set("deleted", true)
	quote.Set("deleted_at", time.Now().UTC())
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save delete: %w", err)
	}
	return nil
}

// RestoreQuote clears the soft-delete flag.
func RestoreQuote(app *pocketbase.PocketBase, actor *Identity, quote *core.Record) error {
	if !Can(actorRole(actor), ActionRestore) {
		return ErrPermissionDenied
	}
	if !quote.GetBool("deleted") {
		return ErrNotDeleted
	}
	quote.Set("deleted", false)
	quote.Set("deleted_at", nil)
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save restore: %w", err)
	}
	return nil
}

// ArchiveQuote sets the archive flag. Archiving is reversible at any status
// and orthogonal to both status and deletion.
func ArchiveQuote(app *pocketbase.PocketBase, actor *Identity, quote *core.Record) error {
	if !Can(actorRole(actor), ActionArchive) {
		return ErrPermissionDenied
	}
	quote.Set("is_archived", true)
	quote.Set("archived_at", time.Now().UTC())
	quote.Set("archived_by", actorEmail(actor))
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

// UnarchiveQuote clears the archive flag.
func UnarchiveQuote(app *pocketbase.PocketBase, actor *Identity, quote *core.Record) error {
	if !Can(actorRole(actor), ActionArchive) {
		return ErrPermissionDenied
	}
	quote.Set("is_archived", false)
	quote.Set("archived_at", nil)
	quote.Set("archived_by", "")
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("save unarchive: %w", err)
	}
	return nil
}

// FindQuoteItems returns the line item records of a quote in sort order.
func FindQuoteItems(app *pocketbase.PocketBase, quoteID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"quote_items",
		"quotation = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return nil, fmt.Errorf("load quote items: %w", err)
	}
	return records, nil
}

// QuoteTotals recomputes the totals of a persisted quote from its stored
// line items. Every read path (save, print, email) goes through this so the
// figures can never drift apart.
func QuoteTotals(app *pocketbase.PocketBase, quote *core.Record) (Totals, error) {
	itemRecords, err := FindQuoteItems(app, quote.Id)
	if err != nil {
		return Totals{}, err
	}
	return totalsFromRecords(quote, itemRecords), nil
}

// ActiveQuoteNumbersForProduct returns the numbers of non-deleted,
// non-archived quotes that reference the product. Used to block destructive
// catalog operations with a specific, named-item error.
func ActiveQuoteNumbersForProduct(app *pocketbase.PocketBase, productID string) ([]string, error) {
	itemRecords, err := app.FindRecordsByFilter(
		"quote_items",
		"product = {:productId}",
		"",
		0,
		0,
		map[string]any{"productId": productID},
	)
	if err != nil {
		return nil, fmt.Errorf("load referencing items: %w", err)
	}

	seen := make(map[string]bool)
	var numbers []string
	for _, item := range itemRecords {
		quoteID := item.GetString("quotation")
		if quoteID == "" || seen[quoteID] {
			continue
		}
		seen[quoteID] = true
		quote, err := app.FindRecordById("quotations", quoteID)
		if err != nil {
			continue
		}
		if quote.GetBool("deleted") || quote.GetBool("is_archived") {
			continue
		}
		numbers = append(numbers, quote.GetString("number"))
	}
	sort.Strings(numbers)
	return numbers, nil
}

// ── internals ────────────────────────────────────────────────────────────

// resolveItems turns the draft payload into line items, seeding unit price,
// VAT rate and description from the referenced product when absent.
func resolveItems(app *pocketbase.PocketBase, inputs []QuoteItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		item := LineItem{
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			VATRate:     in.VATRate,
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}

		if in.ProductID != "" {
			product, err := app.FindRecordById("products", in.ProductID)
			if err != nil {
				return nil, fmt.Errorf("product %s not found: %w", in.ProductID, err)
			}
			if in.UnitPrice == nil {
				item.UnitPrice = product.GetFloat("unit_price")
			}
			if in.VATRate == nil {
				rate := product.GetFloat("vat_rate")
				item.VATRate = &rate
			}
			if item.Description == "" {
				item.Description = product.GetString("name")
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveVATRate picks the payload rate when present, otherwise the company
// default. The rate always travels as an explicit value from here on.
func resolveVATRate(app *pocketbase.PocketBase, override *float64) (float64, error) {
	if override != nil {
		return *override, nil
	}
	settings, err := GetCompanySettings(app)
	if err != nil {
		return 0, err
	}
	return settings.GetFloat("default_vat_rate"), nil
}

// saveItems persists line items for a quote, recomputing each line total.
func saveItems(app *pocketbase.PocketBase, quoteID string, items []LineItem) error {
	itemsCol, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		return fmt.Errorf("find quote_items collection: %w", err)
	}
	for i, item := range items {
		rec := core.NewRecord(itemsCol)
		rec.Set("quotation", quoteID)
		rec.Set("sort_order", i+1)
		rec.Set("product", item.ProductID)
		rec.Set("description", item.Description)
		rec.Set("quantity", item.Quantity)
		rec.Set("unit_price", item.UnitPrice)
		if item.VATRate != nil {
			rec.Set("vat_rate", *item.VATRate)
		}
		rec.Set("line_total", Round2(LineTotal(item)))
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("save item %d: %w", i+1, err)
		}
	}
	return nil
}

// freezeSnapshots captures the current product name and code on each line
// item so later catalog edits cannot retroactively alter the quote.
// Already-frozen items are left untouched.
func freezeSnapshots(app *pocketbase.PocketBase, itemRecords []*core.Record) error {
	for _, rec := range itemRecords {
		if rec.GetString("product_name_snapshot") != "" {
			continue
		}
		productID := rec.GetString("product")
		if productID == "" {
			continue
		}
		product, err := app.FindRecordById("products", productID)
		if err != nil {
			// Product removed from the catalog; fall back to the item's own
			// description so the quote stays printable.
			rec.Set("product_name_snapshot", rec.GetString("description"))
		} else {
			rec.Set("product_name_snapshot", product.GetString("name"))
			rec.Set("product_code_snapshot", product.GetString("sku"))
		}
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("freeze snapshot: %w", err)
		}
	}
	return nil
}

// totalsFromRecords rebuilds line items from stored records and runs the
// totals engine with the quote's own discount and VAT configuration.
func totalsFromRecords(quote *core.Record, itemRecords []*core.Record) Totals {
	items := make([]LineItem, 0, len(itemRecords))
	for _, rec := range itemRecords {
		items = append(items, LineItem{
			ProductID:   rec.GetString("product"),
			Description: rec.GetString("description"),
			Quantity:    rec.GetFloat("quantity"),
			UnitPrice:   rec.GetFloat("unit_price"),
		})
	}
	discount := DiscountSpec{
		Type:  normalizeDiscountType(DiscountType(quote.GetString("discount_type"))),
		Value: quote.GetFloat("discount_value"),
	}
	return ComputeTotals(items, discount, quote.GetFloat("vat_rate"))
}

// applyTotals writes rounded totals onto the record. This is a persistence
// boundary, so Round2 applies here and only here.
func applyTotals(quote *core.Record, t Totals) {
	quote.Set("subtotal", Round2(t.Subtotal))
	quote.Set("discount_amount", Round2(t.DiscountAmount))
	quote.Set("taxable_total", Round2(t.TaxableTotal))
	quote.Set("vat_amount", Round2(t.VATAmount))
	quote.Set("total", Round2(t.Total))
}

func normalizeDiscountType(t DiscountType) DiscountType {
	switch t {
	case DiscountPercentage, DiscountFixed:
		return t
	default:
		return DiscountNone
	}
}

func actorEmail(actor *Identity) string {
	if actor == nil {
		return ""
	}
	return actor.Email
}

func actorRole(actor *Identity) Role {
	if actor == nil {
		return RoleUser
	}
	return actor.Role
}
