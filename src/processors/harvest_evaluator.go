package processors

import (
	"fmt"
	"time"

	"github.com/username/harvestfolio/src/models"
	"github.com/username/harvestfolio/src/utils"
)

// longTermHoldingDays is the holding-period boundary: lots held this many
// days or fewer are excluded from long-term harvesting.
const longTermHoldingDays = 365

type HarvestEvaluator struct{}

func NewHarvestEvaluator() *HarvestEvaluator {
	return &HarvestEvaluator{}
}

// Evaluate computes the per-lot gain/loss of a stock's surviving inventory
// against the current price, and an aggregate harvesting recommendation.
// evaluatedAt is passed explicitly so the holding-period calculation is
// deterministic under test; callers pass time.Now().
//
// The recommendation is lot-triggered: a single lot with a loss whose holding
// period exceeds the long-term boundary is enough for "yes", regardless of
// the aggregate sum.
func (e *HarvestEvaluator) Evaluate(lots []models.Lot, currentPrice float64, evaluatedAt time.Time) (models.HarvestEvaluation, error) {
	evaluation := models.HarvestEvaluation{RecommendHarvest: "no"}

	for _, lot := range lots {
		purchaseDate, err := utils.ParsePurchaseDate(lot.PurchaseDate)
		if err != nil {
			return models.HarvestEvaluation{}, fmt.Errorf("evaluating lot purchased %q: %w", lot.PurchaseDate, err)
		}

		holdingDays := int(evaluatedAt.Sub(purchaseDate).Hours() / 24)
		gainLoss := (currentPrice - lot.PricePerUnit) * lot.Quantity
		excluded := holdingDays <= longTermHoldingDays

		evaluation.TotalPotentialGainLoss += gainLoss
		if gainLoss < 0 && !excluded {
			evaluation.RecommendHarvest = "yes"
		}

		evaluation.LotResults = append(evaluation.LotResults, models.LotResult{
			Quantity:          lot.Quantity,
			PricePerUnit:      lot.PricePerUnit,
			PurchaseDate:      lot.PurchaseDate,
			PotentialGainLoss: gainLoss,
			ExcludedDueToDate: excluded,
		})
	}

	return evaluation, nil
}
