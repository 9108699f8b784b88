package utils

import (
	"fmt"
	"time"
)

// PurchaseDateFormat is the MM/DD/YY layout used by the brokerage export.
const PurchaseDateFormat = "01/02/06"

// ParsePurchaseDate parses a purchase date string in the MM/DD/YY format.
func ParsePurchaseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(PurchaseDateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid purchase date %q (expected MM/DD/YY): %w", dateStr, err)
	}
	return t, nil
}
