package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/harvestfolio/src/models"
	"github.com/username/harvestfolio/src/utils"
)

// evalDate is a fixed evaluation instant so holding periods are exact.
var evalDate = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func lotPurchasedDaysAgo(days int, qty, price float64) models.Lot {
	return models.Lot{
		Quantity:     qty,
		PricePerUnit: price,
		PurchaseDate: evalDate.AddDate(0, 0, -days).Format(utils.PurchaseDateFormat),
	}
}

func TestEvaluate_HoldingPeriodBoundary(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	// Exactly 365 days is still short-term; 366 days crosses the boundary.
	eval, err := evaluator.Evaluate([]models.Lot{
		lotPurchasedDaysAgo(365, 1, 100),
		lotPurchasedDaysAgo(366, 1, 100),
	}, 90, evalDate)
	require.NoError(t, err)

	require.Len(t, eval.LotResults, 2)
	assert.True(t, eval.LotResults[0].ExcludedDueToDate)
	assert.False(t, eval.LotResults[1].ExcludedDueToDate)
}

func TestEvaluate_RecommendationTrigger(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	// One long-term lot with a -5 loss and one lot with a +100 gain: the
	// single qualifying loss lot triggers the recommendation even though the
	// aggregate is positive.
	eval, err := evaluator.Evaluate([]models.Lot{
		lotPurchasedDaysAgo(400, 1, 100), // (95-100)*1 = -5
		lotPurchasedDaysAgo(400, 20, 90), // (95-90)*20 = +100
	}, 95, evalDate)
	require.NoError(t, err)

	assert.Equal(t, "yes", eval.RecommendHarvest)
	assert.InDelta(t, 95.0, eval.TotalPotentialGainLoss, 1e-9)
	assert.InDelta(t, -5.0, eval.LotResults[0].PotentialGainLoss, 1e-9)
	assert.InDelta(t, 100.0, eval.LotResults[1].PotentialGainLoss, 1e-9)
}

func TestEvaluate_ShortTermLossDoesNotTrigger(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	eval, err := evaluator.Evaluate([]models.Lot{
		lotPurchasedDaysAgo(30, 10, 100),
	}, 80, evalDate)
	require.NoError(t, err)

	require.Len(t, eval.LotResults, 1)
	assert.True(t, eval.LotResults[0].ExcludedDueToDate)
	assert.Equal(t, "no", eval.RecommendHarvest)
	assert.InDelta(t, -200.0, eval.TotalPotentialGainLoss, 1e-9)
}

func TestEvaluate_LongTermGainDoesNotTrigger(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	eval, err := evaluator.Evaluate([]models.Lot{
		lotPurchasedDaysAgo(800, 10, 100),
	}, 120, evalDate)
	require.NoError(t, err)

	assert.Equal(t, "no", eval.RecommendHarvest)
	assert.False(t, eval.LotResults[0].ExcludedDueToDate)
}

func TestEvaluate_EmptyInventory(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	eval, err := evaluator.Evaluate(nil, 100, evalDate)
	require.NoError(t, err)

	assert.Empty(t, eval.LotResults)
	assert.Zero(t, eval.TotalPotentialGainLoss)
	assert.Equal(t, "no", eval.RecommendHarvest)
}

func TestEvaluate_InvalidPurchaseDate(t *testing.T) {
	evaluator := NewHarvestEvaluator()

	_, err := evaluator.Evaluate([]models.Lot{
		{Quantity: 1, PricePerUnit: 100, PurchaseDate: "not-a-date"},
	}, 100, evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-date")
}
