package processors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func buy(ticker string, qty, price float64, date string) models.Transaction {
	return models.Transaction{
		StockTicker:  ticker,
		Shares:       qty,
		UnitPrice:    price,
		HasUnitPrice: true,
		PurchaseDate: date,
	}
}

func buyNoPrice(ticker string, qty float64, date string) models.Transaction {
	return models.Transaction{
		StockTicker:  ticker,
		Shares:       qty,
		PurchaseDate: date,
	}
}

func sell(ticker string, qty float64) models.Transaction {
	return models.Transaction{
		StockTicker: ticker,
		Shares:      -qty,
	}
}

func TestTrack_FIFOOrder(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 10, 100, "01/01/24"),
		buy("AAPL", 10, 110, "01/02/24"),
		sell("AAPL", 15),
	})
	require.NoError(t, err)

	// The oldest lot is fully consumed first; only part of the second survives.
	require.Len(t, lots, 1)
	assert.Equal(t, 5.0, lots[0].Quantity)
	assert.Equal(t, 110.0, lots[0].PricePerUnit)
	assert.Equal(t, "01/02/24", lots[0].PurchaseDate)
}

func TestTrack_SellSpansMultipleLots(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 5, 100, "01/01/24"),
		buy("AAPL", 5, 110, "01/02/24"),
		buy("AAPL", 5, 120, "01/03/24"),
		sell("AAPL", 12),
	})
	require.NoError(t, err)

	require.Len(t, lots, 1)
	assert.Equal(t, 3.0, lots[0].Quantity)
	assert.Equal(t, 120.0, lots[0].PricePerUnit)
}

func TestTrack_SellExactlyDepletesInventory(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 10, 100, "01/01/24"),
		sell("AAPL", 10),
	})
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestTrack_InsufficientInventory(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 5, 100, "01/01/24"),
		sell("AAPL", 10),
	})
	require.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Nil(t, lots)
}

func TestTrack_SellWithNoInventory(t *testing.T) {
	tracker := NewLotTracker()

	_, err := tracker.Track([]models.Transaction{
		sell("AAPL", 1),
	})
	require.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestTrack_MissingPriceBuyIsDropped(t *testing.T) {
	tracker := NewLotTracker()

	// The no-price buy never enters inventory, so it is not sellable against:
	// the sell of 10 must be covered entirely by the priced lot.
	lots, err := tracker.Track([]models.Transaction{
		buyNoPrice("AAPL", 10, "01/01/24"),
		buy("AAPL", 10, 100, "01/02/24"),
		sell("AAPL", 10),
	})
	require.NoError(t, err)
	assert.Empty(t, lots)

	// And it cannot cover a sell on its own.
	_, err = tracker.Track([]models.Transaction{
		buyNoPrice("AAPL", 10, "01/01/24"),
		sell("AAPL", 1),
	})
	require.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestTrack_ZeroSharesIsNoOp(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 10, 100, "01/01/24"),
		{StockTicker: "AAPL", Shares: 0},
	})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, 10.0, lots[0].Quantity)
}

func TestTrack_QuantityConservation(t *testing.T) {
	tracker := NewLotTracker()

	// Surviving quantity equals priced buys minus sells; the no-price buy
	// contributes nothing.
	lots, err := tracker.Track([]models.Transaction{
		buy("AAPL", 10, 100, "01/01/24"),
		sell("AAPL", 4),
		buy("AAPL", 7.5, 105, "01/02/24"),
		buyNoPrice("AAPL", 3, "01/03/24"),
		sell("AAPL", 2.5),
	})
	require.NoError(t, err)

	var total float64
	for _, lot := range lots {
		total += lot.Quantity
	}
	assert.InDelta(t, 10+7.5-4-2.5, total, 1e-9)
}

func TestTrack_FractionalPartialConsumption(t *testing.T) {
	tracker := NewLotTracker()

	lots, err := tracker.Track([]models.Transaction{
		buy("VT", 2.75, 90, "06/15/23"),
		sell("VT", 1.25),
	})
	require.NoError(t, err)

	require.Len(t, lots, 1)
	assert.InDelta(t, 1.5, lots[0].Quantity, 1e-9)
	assert.Equal(t, "06/15/23", lots[0].PurchaseDate)
}
