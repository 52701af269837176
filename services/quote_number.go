package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatQuoteNumber constructs the human-readable quotation number.
// Format: QUO{year}/{4-digit sequence}, e.g. QUO2026/0004.
func formatQuoteNumber(year int, sequence int) string {
	return fmt.Sprintf("QUO%d/%04d", year, sequence)
}

// GenerateQuoteNumber creates the next quotation number for the calendar
// year of now. The sequence is the count of existing quotes whose number
// starts with QUO{year} plus one. Two quotes drafted at the same instant can
// observe the same count; the unique index on quotations.number turns that
// race into a failed save instead of a silent duplicate.
func GenerateQuoteNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("QUO%d", year)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("count existing quotes: %w", err)
	}

	return formatQuoteNumber(year, len(existing)+1), nil
}
