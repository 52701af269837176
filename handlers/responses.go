package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a JSON error body with the given status.
func apiError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into dst.
func decodeJSON(e *core.RequestEvent, dst any) error {
	decoder := json.NewDecoder(e.Request.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// customerResponse maps a customer record to its API shape.
func customerResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":             rec.Id,
		"name":           rec.GetString("name"),
		"email":          rec.GetString("email"),
		"phone":          rec.GetString("phone"),
		"address":        rec.GetString("address"),
		"contact_person": rec.GetString("contact_person"),
		"vat_number":     rec.GetString("vat_number"),
		"is_archived":    rec.GetBool("is_archived"),
		"deleted":        rec.GetBool("deleted"),
		"created":        rec.GetString("created"),
		"updated":        rec.GetString("updated"),
	}
}

// productResponse maps a product record to its API shape.
func productResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":          rec.Id,
		"sku":         rec.GetString("sku"),
		"name":        rec.GetString("name"),
		"description": rec.GetString("description"),
		"category":    rec.GetString("category"),
		"unit_price":  rec.GetFloat("unit_price"),
		"vat_rate":    rec.GetFloat("vat_rate"),
		"is_archived": rec.GetBool("is_archived"),
		"deleted":     rec.GetBool("deleted"),
		"created":     rec.GetString("created"),
		"updated":     rec.GetString("updated"),
	}
}

// userResponse maps a users auth record to its API shape. Password and token
// material never leave the store.
func userResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":      rec.Id,
		"email":   rec.Email(),
		"name":    rec.GetString("name"),
		"role":    rec.GetString("role"),
		"deleted": rec.GetBool("deleted"),
		"created": rec.GetString("created"),
		"updated": rec.GetString("updated"),
	}
}

// quoteResponse maps a quotation record to its API list shape. The derived
// totals come from the persisted (rounded) fields.
func quoteResponse(rec *core.Record) map[string]any {
	var history []map[string]any
	rec.UnmarshalJSONField("status_history", &history)

	return map[string]any{
		"id":                   rec.Id,
		"number":               rec.GetString("number"),
		"customer":             rec.GetString("customer"),
		"customer_name":        rec.GetString("customer_name"),
		"customer_email":       rec.GetString("customer_email"),
		"customer_phone":       rec.GetString("customer_phone"),
		"customer_address":     rec.GetString("customer_address"),
		"customer_vat_number":  rec.GetString("customer_vat_number"),
		"status":               rec.GetString("status"),
		"status_history":       history,
		"discount_type":        rec.GetString("discount_type"),
		"discount_value":       rec.GetFloat("discount_value"),
		"vat_rate":             rec.GetFloat("vat_rate"),
		"subtotal":             rec.GetFloat("subtotal"),
		"discount_amount":      rec.GetFloat("discount_amount"),
		"taxable_total":        rec.GetFloat("taxable_total"),
		"vat_amount":           rec.GetFloat("vat_amount"),
		"total":                rec.GetFloat("total"),
		"notes":                rec.GetString("notes"),
		"terms_and_conditions": rec.GetString("terms_and_conditions"),
		"valid_until":          rec.GetString("valid_until"),
		"is_archived":          rec.GetBool("is_archived"),
		"deleted":              rec.GetBool("deleted"),
		"created":              rec.GetString("created"),
		"updated":              rec.GetString("updated"),
	}
}

// quoteItemResponse maps a line item record to its API shape.
func quoteItemResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":                    rec.Id,
		"product":               rec.GetString("product"),
		"sort_order":            rec.GetInt("sort_order"),
		"description":           rec.GetString("description"),
		"quantity":              rec.GetFloat("quantity"),
		"unit_price":            rec.GetFloat("unit_price"),
		"vat_rate":              rec.GetFloat("vat_rate"),
		"line_total":            rec.GetFloat("line_total"),
		"product_name_snapshot": rec.GetString("product_name_snapshot"),
		"product_code_snapshot": rec.GetString("product_code_snapshot"),
	}
}
