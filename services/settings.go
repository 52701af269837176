package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Company settings defaults, applied when the singleton is first read.
const (
	DefaultCompanyName = "Grow United Italy"
	DefaultVATRate     = 4.0
)

// GetCompanySettings returns the company settings singleton, creating it
// with defaults on first read. The collection holds at most one row; there
// is no delete path.
func GetCompanySettings(app *pocketbase.PocketBase) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return nil, fmt.Errorf("find company_settings collection: %w", err)
	}

	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, fmt.Errorf("load company settings: %w", err)
	}
	if len(records) > 0 {
		return records[0], nil
	}

	record := core.NewRecord(col)
	record.Set("company_name", DefaultCompanyName)
	record.Set("default_vat_rate", DefaultVATRate)
	record.Set("mail_port", 587)
	record.Set("mail_tls", true)
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("create company settings: %w", err)
	}
	return record, nil
}

// UpdateCompanySettings applies the given field values onto the singleton,
// creating it first if needed.
func UpdateCompanySettings(app *pocketbase.PocketBase, fields map[string]any) (*core.Record, error) {
	record, err := GetCompanySettings(app)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save company settings: %w", err)
	}
	return record, nil
}
