package services

import (
	"errors"
	"io"

	"github.com/username/harvestfolio/src/models"
)

var (
	// ErrInvalidAccountID is returned when an empty or blank account
	// identifier reaches the entry point; rejected before any computation.
	ErrInvalidAccountID = errors.New("account ID is required")

	// ErrPriceLookup wraps any failure to obtain a usable current price for
	// a stock. It is fatal for the whole account report.
	ErrPriceLookup = errors.New("failed to fetch current stock price")
)

// TransactionSource supplies an account's transaction rows from the data
// store, in insertion order. Row order is the chronological order assumed by
// FIFO matching; implementations must not re-sort.
type TransactionSource interface {
	FetchTransactions(accountID string) ([]models.RawTransaction, error)
}

// PriceService returns the current market price for a stock ticker.
type PriceService interface {
	GetCurrentPrice(ticker string) (float64, error)
}

// ReportService is the core entry point: it turns one account's transaction
// history into the flat per-lot harvest report.
type ReportService interface {
	ProcessAccount(accountID string) ([]models.ReportRow, error)
	InvalidateCache()
}

// ImportService bulk-loads a brokerage CSV export into the data store.
type ImportService interface {
	LoadCSV(file io.Reader) (int, error)
}
