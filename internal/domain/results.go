package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationResult is the glide-path portfolio built for one goal's
// allocated capital. ExpectedReturn, ExpectedRisk and SharpeRatio are
// derived from the weights and the CMA table, never stored independently.
type AllocationResult struct {
	GoalID          string                     `json:"goal_id"`
	AllocatedAmount decimal.Decimal            `json:"allocated_amount"`
	YearsToGoal     float64                    `json:"years_to_goal"`
	RiskTolerance   float64                    `json:"risk_tolerance"`
	Weights         map[AssetClassCode]float64 `json:"weights"` // Sums to 1.0 within 1e-6
	ExpectedReturn  float64                    `json:"expected_return"`
	ExpectedRisk    float64                    `json:"expected_risk"`
	SharpeRatio     float64                    `json:"sharpe_ratio"`
}

// TargetAmounts converts the weight vector into per-asset dollar targets.
func (a *AllocationResult) TargetAmounts() map[AssetClassCode]decimal.Decimal {
	targets := make(map[AssetClassCode]decimal.Decimal, len(a.Weights))
	for code, w := range a.Weights {
		targets[code] = a.AllocatedAmount.Mul(decimal.NewFromFloat(w))
	}
	return targets
}

// SimulationResult summarizes the terminal-value distribution of a
// Monte Carlo run against a goal target. Monetary fields are rounded to
// cents, probabilities to 4 decimal places.
type SimulationResult struct {
	SuccessProbability float64         `json:"success_probability"`
	ShortfallRisk      float64         `json:"shortfall_risk"`
	MedianOutcome      decimal.Decimal `json:"median_outcome"`
	Percentile10       decimal.Decimal `json:"percentile_10"`
	Percentile25       decimal.Decimal `json:"percentile_25"`
	Percentile75       decimal.Decimal `json:"percentile_75"`
	Percentile90       decimal.Decimal `json:"percentile_90"`
	MeanOutcome        decimal.Decimal `json:"mean_outcome"`
	StdDevOutcome      decimal.Decimal `json:"std_dev_outcome"`
	MedianShortfall    decimal.Decimal `json:"median_shortfall"` // Median of (target - value) over failing paths; 0 if none fail
	Iterations         int             `json:"iterations"`
}

// AccountAllocation is the placement optimizer's proposal for one account:
// how many dollars of each asset class the account should hold.
type AccountAllocation struct {
	AccountID string                             `json:"account_id"`
	Holdings  map[AssetClassCode]decimal.Decimal `json:"holdings"`
}

// Total returns the sum of all holdings in the account.
func (a *AccountAllocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amt := range a.Holdings {
		total = total.Add(amt)
	}
	return total
}

// AggregateStats rolls per-goal portfolios up to household level.
type AggregateStats struct {
	TotalValue          decimal.Decimal            `json:"total_value"`
	WeightedReturn      float64                    `json:"weighted_return"`
	WeightedRisk        float64                    `json:"weighted_risk"`
	SharpeRatio         float64                    `json:"sharpe_ratio"`
	AggregateAllocation map[AssetClassCode]float64 `json:"aggregate_allocation"`
}

// GoalPlan bundles everything the planner produced for one goal.
type GoalPlan struct {
	Goal                Goal              `json:"goal"`
	AllocatedCapital    decimal.Decimal   `json:"allocated_capital"`
	MonthlyContribution decimal.Decimal   `json:"monthly_contribution"`
	Portfolio           AllocationResult  `json:"portfolio"`
	Simulation          *SimulationResult `json:"simulation,omitempty"`
}

// HouseholdPlan is the full planning pipeline output: capital split across
// goals, a portfolio per goal, success odds per goal, assets placed into
// accounts, and the household-level rollup.
type HouseholdPlan struct {
	GeneratedAt    time.Time                          `json:"generated_at"`
	TotalCapital   decimal.Decimal                    `json:"total_capital"`
	MonthlySavings decimal.Decimal                    `json:"monthly_savings"`
	Goals          []GoalPlan                         `json:"goals"`
	Accounts       []AccountAllocation                `json:"accounts"`
	Unplaced       map[AssetClassCode]decimal.Decimal `json:"unplaced,omitempty"` // Asset dollars no account had room for
	Aggregate      AggregateStats                     `json:"aggregate"`
}
