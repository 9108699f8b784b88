package services

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/harvestfolio/src/database"
)

const testCSV = `Account ID,Stock Name,Number of Shares,Stock Price,Date Purchased
ACC1,AAPL,10,$150.00,01/15/24
ACC1,AAPL,-4,,02/20/24
ACC2,MSFT,5,n/a,03/01/24
ACC1,GOOG,2,135.50,04/10/24
`

func TestLoadCSVAndFetchTransactions(t *testing.T) {
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	defer database.DB.Close()

	importSvc := NewImportService(database.DB, nil)
	rowCount, err := importSvc.LoadCSV(strings.NewReader(testCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, rowCount)

	source := NewTransactionSource(database.DB)

	rows, err := source.FetchTransactions("ACC1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Insertion order must survive the round trip; FIFO matching depends on it.
	assert.Equal(t, "AAPL", rows[0].StockName)
	assert.Equal(t, "$150.00", rows[0].StockPrice)
	assert.Equal(t, "AAPL", rows[1].StockName)
	assert.Equal(t, "-4", rows[1].NumShares)
	assert.Equal(t, "GOOG", rows[2].StockName)
	assert.Equal(t, "135.50", rows[2].StockPrice)

	other, err := source.FetchTransactions("ACC2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "MSFT", other[0].StockName)
	assert.Equal(t, "n/a", other[0].StockPrice)
}

func TestLoadCSV_ReplacesPreviousContents(t *testing.T) {
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	defer database.DB.Close()

	importSvc := NewImportService(database.DB, nil)
	_, err := importSvc.LoadCSV(strings.NewReader(testCSV))
	require.NoError(t, err)

	replacement := `Account ID,Stock Name,Number of Shares,Stock Price,Date Purchased
ACC3,TSLA,1,250,05/05/24
`
	rowCount, err := importSvc.LoadCSV(strings.NewReader(replacement))
	require.NoError(t, err)
	assert.Equal(t, 1, rowCount)

	source := NewTransactionSource(database.DB)
	rows, err := source.FetchTransactions("ACC1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = source.FetchTransactions("ACC3")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TSLA", rows[0].StockName)
}

func TestLoadCSV_InvalidCSVLeavesTableUntouched(t *testing.T) {
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	defer database.DB.Close()

	importSvc := NewImportService(database.DB, nil)
	_, err := importSvc.LoadCSV(strings.NewReader(testCSV))
	require.NoError(t, err)

	_, err = importSvc.LoadCSV(strings.NewReader("Account ID,Stock Name\nACC9,XXX\n"))
	require.Error(t, err)

	source := NewTransactionSource(database.DB)
	rows, err := source.FetchTransactions("ACC1")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
