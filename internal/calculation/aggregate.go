package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/goalplan/goalplan/internal/domain"
)

// AggregateHousehold rolls per-goal portfolios up to household level,
// weighting each goal's expected return, risk and asset mix by its share of
// the realized capital allocation. Goals absent from the allocation map are
// skipped; a household with no allocated value gets zeroed statistics.
func (e *PlanningEngine) AggregateHousehold(portfolios []domain.AllocationResult, allocations map[string]decimal.Decimal) domain.AggregateStats {
	totalValue := decimal.Zero
	for i := range portfolios {
		if amount, ok := allocations[portfolios[i].GoalID]; ok {
			totalValue = totalValue.Add(amount)
		}
	}

	stats := domain.AggregateStats{
		TotalValue:          totalValue,
		AggregateAllocation: make(map[domain.AssetClassCode]float64),
	}
	if !totalValue.IsPositive() {
		return stats
	}

	total := totalValue.InexactFloat64()
	for i := range portfolios {
		amount, ok := allocations[portfolios[i].GoalID]
		if !ok {
			continue
		}
		weight := amount.InexactFloat64() / total
		stats.WeightedReturn += weight * portfolios[i].ExpectedReturn
		stats.WeightedRisk += weight * portfolios[i].ExpectedRisk
		for code, w := range portfolios[i].Weights {
			stats.AggregateAllocation[code] += weight * w
		}
	}
	stats.SharpeRatio = sharpeRatio(stats.WeightedReturn, stats.WeightedRisk, e.RiskFreeRate)

	return stats
}
