package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/harvestfolio/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database and ensures the stocks table exists.
// Column names mirror the brokerage export headers, quoted because they
// contain spaces. Row insertion order is load-bearing: FIFO matching replays
// transactions by rowid, so no index or reordering is applied here.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS stocks (
		"Account ID" TEXT NOT NULL,
		"Stock Name" TEXT NOT NULL,
		"Number of Shares" REAL NOT NULL,
		"Stock Price" TEXT,
		"Date Purchased" TEXT
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
