package services

import (
	"database/sql"
	"fmt"

	"github.com/username/harvestfolio/src/models"
)

// sqliteTransactionSource reads account rows from the stocks table.
type sqliteTransactionSource struct {
	db *sql.DB
}

// NewTransactionSource creates a TransactionSource backed by the given
// database handle.
func NewTransactionSource(db *sql.DB) TransactionSource {
	return &sqliteTransactionSource{db: db}
}

// FetchTransactions returns the account's rows ordered by rowid, i.e. the
// order the bulk loader inserted them. That insertion order stands in for
// chronological order downstream, so no ORDER BY on the date column here.
func (s *sqliteTransactionSource) FetchTransactions(accountID string) ([]models.RawTransaction, error) {
	rows, err := s.db.Query(`
		SELECT "Account ID", "Stock Name", "Number of Shares", "Stock Price", "Date Purchased"
		FROM stocks
		WHERE "Account ID" = ?
		ORDER BY rowid`, accountID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var transactions []models.RawTransaction
	for rows.Next() {
		var tx models.RawTransaction
		var stockPrice, datePurchased sql.NullString
		if err := rows.Scan(&tx.AccountID, &tx.StockName, &tx.NumShares, &stockPrice, &datePurchased); err != nil {
			return nil, fmt.Errorf("error scanning transaction for account %s: %w", accountID, err)
		}
		tx.StockPrice = stockPrice.String
		tx.DatePurchased = datePurchased.String
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions for account %s: %w", accountID, err)
	}

	return transactions, nil
}
