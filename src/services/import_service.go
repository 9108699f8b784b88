package services

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/parsers"
)

// importServiceImpl bulk-loads a brokerage CSV export into the stocks table.
type importServiceImpl struct {
	db            *sql.DB
	reportService ReportService
}

func NewImportService(db *sql.DB, reportService ReportService) ImportService {
	return &importServiceImpl{
		db:            db,
		reportService: reportService,
	}
}

// LoadCSV replaces the contents of the stocks table with the rows of the
// given CSV, preserving file order (the rowid order downstream FIFO matching
// depends on). The whole load runs in one database transaction and returns
// the number of rows inserted. All cached reports are invalidated afterwards.
func (s *importServiceImpl) LoadCSV(file io.Reader) (int, error) {
	startTime := time.Now()
	logger.L.Info("Bulk CSV load START")

	rows, err := parsers.ParseCSV(file)
	if err != nil {
		return 0, err
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM stocks`); err != nil {
		return 0, fmt.Errorf("error clearing stocks table: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO stocks ("Account ID", "Stock Name", "Number of Shares", "Stock Price", "Date Purchased") VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.AccountID, row.StockName, row.NumShares, row.StockPrice, row.DatePurchased); err != nil {
			return 0, fmt.Errorf("error inserting row for account %s: %w", row.AccountID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing bulk load: %w", err)
	}

	if s.reportService != nil {
		s.reportService.InvalidateCache()
	}

	logger.L.Info("Bulk CSV load END", "rows", len(rows), "duration", time.Since(startTime))
	return len(rows), nil
}
