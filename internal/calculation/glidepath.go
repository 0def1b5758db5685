package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/goalplan/goalplan/internal/domain"
)

// RiskFreeRate is the reference risk-free rate used in Sharpe ratios.
const RiskFreeRate = 0.04

// Glide-path constants. The sub-split percentages and the equity-share
// formula are heuristic reference values, kept as named variables so callers
// can rebuild an engine around alternatives.
var (
	// EquitySubSplit divides the equity share across sleeves: 60/30/10
	// domestic / international-developed / emerging.
	EquitySubSplit = map[domain.AssetClassCode]float64{
		domain.AssetUSEquity:   0.60,
		domain.AssetIntlEquity: 0.30,
		domain.AssetEMEquity:   0.10,
	}

	// BondSubSplit divides the fixed-income complement: 70/20/10
	// investment-grade / inflation-protected / cash.
	BondSubSplit = map[domain.AssetClassCode]float64{
		domain.AssetBonds: 0.70,
		domain.AssetTIPS:  0.20,
		domain.AssetCash:  0.10,
	}
)

// RiskToleranceFor derives a scalar risk tolerance in [0,1] from the goal
// horizon, adjusted by priority: a step function of years-to-goal, with
// essential goals shifted down and aspirational goals shifted up.
func RiskToleranceFor(yearsToGoal float64, priority domain.GoalPriority) float64 {
	var base float64
	switch {
	case yearsToGoal >= 30:
		base = 0.9
	case yearsToGoal >= 20:
		base = 0.8
	case yearsToGoal >= 15:
		base = 0.7
	case yearsToGoal >= 10:
		base = 0.6
	case yearsToGoal >= 5:
		base = 0.4
	case yearsToGoal >= 3:
		base = 0.3
	default:
		base = 0.2
	}
	return clamp(base+priority.RiskAdjustment(), 0, 1)
}

// equityShare maps (years-to-goal, risk tolerance) to the portfolio's total
// equity fraction, clamped to [0.1, 0.9] both before and after the risk
// scaling so even the shortest horizon keeps some growth exposure.
func equityShare(yearsToGoal, riskTolerance float64) float64 {
	base := clamp(1-yearsToGoal/50, 0.1, 0.9)
	return clamp(base*(0.7+riskTolerance*0.6), 0.1, 0.9)
}

// BuildGoalPortfolio maps a goal's horizon and priority onto a six-sleeve
// asset-class weight vector and derives its expected return, risk and Sharpe
// ratio from the engine's CMA table.
func (e *PlanningEngine) BuildGoalPortfolio(goal domain.Goal, allocatedAmount decimal.Decimal) (domain.AllocationResult, error) {
	for _, code := range domain.AllAssetClasses {
		if _, err := e.CMA.Lookup(code); err != nil {
			return domain.AllocationResult{}, err
		}
	}
	if allocatedAmount.IsNegative() {
		return domain.AllocationResult{}, fmt.Errorf("allocated amount for goal %q must not be negative, got %s", goal.ID, allocatedAmount)
	}

	risk := RiskToleranceFor(goal.YearsToGoal, goal.Priority)
	equity := equityShare(goal.YearsToGoal, risk)
	fixed := 1 - equity

	weights := make(map[domain.AssetClassCode]float64, len(domain.AllAssetClasses))
	for code, split := range EquitySubSplit {
		weights[code] = equity * split
	}
	for code, split := range BondSubSplit {
		weights[code] = fixed * split
	}

	expectedReturn := e.CMA.PortfolioReturn(weights)
	expectedRisk := e.CMA.PortfolioRisk(weights)

	return domain.AllocationResult{
		GoalID:          goal.ID,
		AllocatedAmount: allocatedAmount,
		YearsToGoal:     goal.YearsToGoal,
		RiskTolerance:   risk,
		Weights:         weights,
		ExpectedReturn:  expectedReturn,
		ExpectedRisk:    expectedRisk,
		SharpeRatio:     sharpeRatio(expectedReturn, expectedRisk, e.RiskFreeRate),
	}, nil
}

// sharpeRatio guards against zero risk rather than dividing by it.
func sharpeRatio(expectedReturn, expectedRisk, riskFree float64) float64 {
	if expectedRisk == 0 {
		return 0
	}
	return (expectedReturn - riskFree) / expectedRisk
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
