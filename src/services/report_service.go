package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/harvestfolio/src/logger"
	"github.com/username/harvestfolio/src/models"
	"github.com/username/harvestfolio/src/parsers"
	"github.com/username/harvestfolio/src/processors"
)

const ckAccountReport = "report_account_%s"

type reportServiceImpl struct {
	source      TransactionSource
	prices      PriceService
	lotTracker  *processors.LotTracker
	evaluator   *processors.HarvestEvaluator
	reportCache *cache.Cache
}

func NewReportService(
	source TransactionSource,
	prices PriceService,
	lotTracker *processors.LotTracker,
	evaluator *processors.HarvestEvaluator,
	reportCache *cache.Cache,
) ReportService {
	return &reportServiceImpl{
		source:      source,
		prices:      prices,
		lotTracker:  lotTracker,
		evaluator:   evaluator,
		reportCache: reportCache,
	}
}

// ProcessAccount replays the account's transaction history and produces the
// per-lot harvest report. Each distinct stock is processed strictly in
// sequence: FIFO lot tracking, current price lookup, harvest evaluation.
// The first fatal error (insufficient inventory, price lookup failure) aborts
// the whole account; no partial report is returned.
func (s *reportServiceImpl) ProcessAccount(accountID string) ([]models.ReportRow, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrInvalidAccountID
	}

	cacheKey := fmt.Sprintf(ckAccountReport, accountID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for account report", "accountID", accountID)
		return cached.([]models.ReportRow), nil
	}

	startTime := time.Now()
	logger.L.Info("ProcessAccount START", "accountID", accountID)

	rawRows, err := s.source.FetchTransactions(accountID)
	if err != nil {
		return nil, err
	}
	transactions := parsers.ParseTransactions(rawRows)

	// Group per stock, preserving both row order within a stock and the
	// order in which stocks first appear.
	byStock := make(map[string][]models.Transaction)
	var stockOrder []string
	for _, tx := range transactions {
		if _, seen := byStock[tx.StockTicker]; !seen {
			stockOrder = append(stockOrder, tx.StockTicker)
		}
		byStock[tx.StockTicker] = append(byStock[tx.StockTicker], tx)
	}

	evaluatedAt := time.Now()
	var report []models.ReportRow

	for _, ticker := range stockOrder {
		inventory, err := s.lotTracker.Track(byStock[ticker])
		if err != nil {
			return nil, fmt.Errorf("processing %s for account %s: %w", ticker, accountID, err)
		}

		currentPrice, err := s.prices.GetCurrentPrice(ticker)
		if err != nil {
			return nil, err
		}

		evaluation, err := s.evaluator.Evaluate(inventory, currentPrice, evaluatedAt)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s for account %s: %w", ticker, accountID, err)
		}

		for _, lot := range evaluation.LotResults {
			report = append(report, models.ReportRow{
				AccountID:            accountID,
				StockTicker:          ticker,
				NumberOfSharesOnHand: lot.Quantity,
				PurchaseDate:         lot.PurchaseDate,
				PurchasePrice:        lot.PricePerUnit,
				CurrentStockPrice:    currentPrice,
				PotentialLossGain:    lot.PotentialGainLoss,
				ExcludedDueToDate:    yesNo(lot.ExcludedDueToDate),
				RecommendForHarvest:  evaluation.RecommendHarvest,
			})
		}
	}

	s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	logger.L.Info("ProcessAccount END", "accountID", accountID, "rows", len(report), "duration", time.Since(startTime))
	return report, nil
}

// InvalidateCache drops all cached account reports, forcing a full
// recalculation on the next request. Called after a bulk load.
func (s *reportServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
	logger.L.Info("Invalidated all cached account reports")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
