package services

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatEUR formats an amount for display on documents and email bodies,
// e.g. €1,234.50. Always exactly 2 decimal places; rounding happens here,
// at the presentation boundary.
func FormatEUR(amount float64) string {
	rounded := Round2(amount)
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	s := "€" + humanize.FormatFloat("#,###.##", rounded)
	if negative {
		s = "-" + s
	}
	return s
}

// FormatPercent renders a VAT or discount rate, trimming a trailing ".0"
// for whole numbers (22 → "22%", 4.5 → "4.5%").
func FormatPercent(rate float64) string {
	return humanize.Ftoa(rate) + "%"
}

// FormatDate renders a date for documents. Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}
