package processors

import (
	"errors"

	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/models"
)

// ErrInsufficientInventory is returned when a sell consumes more shares than
// all surviving lots hold. It is fatal for the whole account-processing call.
var ErrInsufficientInventory = errors.New("not enough stock to sell the requested quantity")

type LotTracker struct{}

func NewLotTracker() *LotTracker {
	return &LotTracker{}
}

// Track replays a single stock's transactions, in the order supplied, and
// returns the surviving purchase lots in FIFO order.
//
// Buys append a lot to the tail of the inventory; buys with a missing or
// unparseable price contribute no lot and are dropped silently (policy, not
// an error). Sells consume lots from the head of the inventory, oldest first,
// reducing the head lot partially when it is larger than the remaining sell
// quantity. Zero-share rows carry no information and are ignored.
//
// No date-based sort is applied: the caller's row order is assumed to be
// chronological, matching the upstream data store's insertion order.
func (t *LotTracker) Track(transactions []models.Transaction) ([]models.Lot, error) {
	var inventory []models.Lot

	for _, tx := range transactions {
		switch {
		case tx.Shares > 0:
			if !tx.HasUnitPrice {
				logger.L.Debug("Skipping buy with missing price",
					"stock", tx.StockTicker, "shares", tx.Shares, "date", tx.PurchaseDate)
				continue
			}
			inventory = append(inventory, models.Lot{
				Quantity:     tx.Shares,
				PricePerUnit: tx.UnitPrice,
				PurchaseDate: tx.PurchaseDate,
			})

		case tx.Shares < 0:
			sellQty := -tx.Shares
			for sellQty > 0 {
				if len(inventory) == 0 {
					return nil, ErrInsufficientInventory
				}
				head := &inventory[0]
				if head.Quantity <= sellQty {
					sellQty -= head.Quantity
					inventory = inventory[1:]
				} else {
					head.Quantity -= sellQty
					sellQty = 0
				}
			}

		default:
			logger.L.Debug("Ignoring zero-share transaction",
				"stock", tx.StockTicker, "date", tx.PurchaseDate)
		}
	}

	return inventory, nil
}
