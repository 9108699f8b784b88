package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/models"
)

var nonNumericPrice = regexp.MustCompile(`[^0-9.]`)

// CleanPrice strips every character that is not a digit or a decimal point
// from a raw price string ("$1,234.56", "USD 12.30", "n/a") and parses the
// remainder. The second return value is false when nothing parseable is left,
// which callers treat as a missing price rather than an error.
func CleanPrice(raw string) (float64, bool) {
	cleaned := nonNumericPrice.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ParseTransactions converts raw stocks-table rows into Transactions,
// preserving row order. Rows whose share count does not parse are skipped and
// logged; a missing or garbled price is not a parse failure here, it is
// carried through as HasUnitPrice=false and resolved by the lot tracker's
// skip-buy policy.
func ParseTransactions(rows []models.RawTransaction) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(rows))

	for _, row := range rows {
		sharesStr := strings.TrimSpace(row.NumShares)
		shares, err := strconv.ParseFloat(sharesStr, 64)
		if err != nil {
			logger.L.Warn("Skipping transaction with non-numeric share count",
				"stock", row.StockName, "shares", row.NumShares)
			continue
		}

		price, hasPrice := CleanPrice(row.StockPrice)

		transactions = append(transactions, models.Transaction{
			StockTicker:  strings.TrimSpace(row.StockName),
			Shares:       shares,
			UnitPrice:    price,
			HasUnitPrice: hasPrice,
			PurchaseDate: strings.TrimSpace(row.DatePurchased),
		})
	}

	return transactions
}
