package importer

import (
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial day-numbers count from 1899-12-30.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // zone offset without a colon
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
}

// NormalizeDate coerces a date-like value to a single ISO-8601 day. It
// accepts calendar strings (with or without a colon in the numeric timezone
// offset) and spreadsheet serial day-numbers. Unparseable input returns
// ok=false and the row keeps the raw value.
func NormalizeDate(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	// Spreadsheet serial day-number, one-day resolution.
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 && serial < 200000 {
		days := int(serial)
		return sheetEpoch.AddDate(0, 0, days).Format("2006-01-02"), true
	}

	return "", false
}

// dateLikeFields are the draft specification keys normalized after transform.
var dateLikeFields = map[string]bool{
	"purchase_date":  true,
	"warranty_until": true,
	"enrolled_at":    true,
	"last_check_in":  true,
}

func normalizeDateFields(specs map[string]string) {
	for k, v := range specs {
		if !dateLikeFields[k] {
			continue
		}
		if iso, ok := NormalizeDate(v); ok {
			specs[k] = iso
		}
	}
}
