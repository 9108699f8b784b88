package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/harvestfolio/src/models"
)

// Expected header columns of the brokerage CSV export. Matching is
// case-insensitive and order-independent; extra columns are ignored.
const (
	colAccountID     = "account id"
	colStockName     = "stock name"
	colNumShares     = "number of shares"
	colStockPrice    = "stock price"
	colDatePurchased = "date purchased"
)

// ParseCSV reads a brokerage CSV export into raw rows, preserving file order.
// No numeric parsing happens here; the raw strings go into the stocks table
// as-is, the same way the bulk loader script wrote them.
func ParseCSV(file io.Reader) ([]models.RawTransaction, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colAccountID, colStockName, colNumShares, colDatePurchased} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	var rows []models.RawTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		field := func(col string) string {
			idx, ok := colIndex[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return record[idx]
		}

		rows = append(rows, models.RawTransaction{
			AccountID:     field(colAccountID),
			StockName:     field(colStockName),
			NumShares:     field(colNumShares),
			StockPrice:    field(colStockPrice),
			DatePurchased: field(colDatePurchased),
		})
	}

	return rows, nil
}
