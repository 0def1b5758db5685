package calculation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// FundingRequest describes one closed-form funding computation.
type FundingRequest struct {
	TargetAmount   decimal.Decimal
	CurrentAmount  decimal.Decimal
	YearsToGoal    float64
	ExpectedReturn float64 // Annualized
	InflationRate  float64 // Annualized, applied to the target
}

// FundingRequirements is the closed-form time-value-of-money answer for a
// goal: how big the target really is after inflation, what current savings
// grow to, and what it takes to close the gap. RemainingNeed and the
// required savings may be negative when the goal is already over-funded.
type FundingRequirements struct {
	InflationAdjustedTarget     decimal.Decimal `json:"inflation_adjusted_target"`
	FutureValueOfCurrent        decimal.Decimal `json:"future_value_of_current"`
	RemainingNeed               decimal.Decimal `json:"remaining_need"`
	RequiredMonthlySavings      decimal.Decimal `json:"required_monthly_savings"`
	RequiredAnnualSavings       decimal.Decimal `json:"required_annual_savings"`
	LumpSumToday                decimal.Decimal `json:"lump_sum_today"`
	PresentValueOfContributions decimal.Decimal `json:"present_value_of_contributions"`
}

// ComputeFundingRequirements computes the deterministic funding math for a
// goal. No randomness: this is also the solver's initial guess.
func ComputeFundingRequirements(req FundingRequest) (*FundingRequirements, error) {
	if !req.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target_amount must be positive, got %s", req.TargetAmount)
	}
	if req.CurrentAmount.IsNegative() {
		return nil, fmt.Errorf("current_amount must not be negative, got %s", req.CurrentAmount)
	}

	target := req.TargetAmount.InexactFloat64()
	current := req.CurrentAmount.InexactFloat64()

	if req.YearsToGoal <= 0 {
		// The goal is due now: the whole gap is payable immediately.
		need := target - current
		return &FundingRequirements{
			InflationAdjustedTarget:     roundMoney(target),
			FutureValueOfCurrent:        roundMoney(current),
			RemainingNeed:               roundMoney(need),
			RequiredMonthlySavings:      roundMoney(need),
			RequiredAnnualSavings:       roundMoney(need),
			LumpSumToday:                roundMoney(need),
			PresentValueOfContributions: roundMoney(need),
		}, nil
	}

	months := int(req.YearsToGoal * monthsPerYear)
	monthlyRate := req.ExpectedReturn / monthsPerYear

	inflatedTarget := target * math.Pow(1+req.InflationRate, req.YearsToGoal)
	fvCurrent := current * math.Pow(1+monthlyRate, float64(months))
	remainingNeed := inflatedTarget - fvCurrent

	pmt := annuityPayment(remainingNeed, monthlyRate, months)
	lumpSum := remainingNeed / math.Pow(1+monthlyRate, float64(months))
	pvContributions := annuityPresentValue(pmt, monthlyRate, months)

	return &FundingRequirements{
		InflationAdjustedTarget:     roundMoney(inflatedTarget),
		FutureValueOfCurrent:        roundMoney(fvCurrent),
		RemainingNeed:               roundMoney(remainingNeed),
		RequiredMonthlySavings:      roundMoney(pmt),
		RequiredAnnualSavings:       roundMoney(pmt * monthsPerYear),
		LumpSumToday:                roundMoney(lumpSum),
		PresentValueOfContributions: roundMoney(pvContributions),
	}, nil
}

// annuityPayment solves the standard end-of-period annuity payment for a
// future value: PMT = FV*r / ((1+r)^n - 1), with a linear fallback when the
// periodic rate is exactly zero.
func annuityPayment(futureValue, rate float64, periods int) float64 {
	if periods <= 0 {
		return futureValue
	}
	if rate == 0 {
		return futureValue / float64(periods)
	}
	return futureValue * rate / (math.Pow(1+rate, float64(periods)) - 1)
}

// annuityPresentValue discounts an end-of-period payment stream to today:
// PV = PMT * (1 - (1+r)^-n) / r, linear when the rate is zero.
func annuityPresentValue(payment, rate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if rate == 0 {
		return payment * float64(periods)
	}
	return payment * (1 - math.Pow(1+rate, -float64(periods))) / rate
}

// Feasibility labels how realistic a catch-up plan is, based on the ratio of
// incremental to baseline contribution.
type Feasibility string

const (
	FeasibilityVeryFeasible  Feasibility = "very_feasible"         // Incremental < 25% of baseline
	FeasibilityFeasible      Feasibility = "feasible"              // Incremental < 50% of baseline
	FeasibilityChallenging   Feasibility = "challenging"           // Incremental < 100% of baseline
	FeasibilityMajorRevision Feasibility = "major_revision_needed" // Incremental >= baseline
)

// CatchUpRequest describes a behind-schedule goal.
type CatchUpRequest struct {
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	YearsRemaining      float64
	YearsBehindSchedule float64
	ExpectedReturn      float64
}

// CatchUpStrategy quantifies what getting back on track costs.
type CatchUpStrategy struct {
	ExpectedCurrentAmount decimal.Decimal `json:"expected_current_amount"` // Under linear progress over the full horizon
	Shortfall             decimal.Decimal `json:"shortfall"`
	BaselineMonthly       decimal.Decimal `json:"baseline_monthly"` // Never-behind contribution from day one
	RequiredMonthly       decimal.Decimal `json:"required_monthly"` // What it takes from here
	IncrementalMonthly    decimal.Decimal `json:"incremental_monthly"`
	Feasibility           Feasibility     `json:"feasibility"`
}

// ComputeCatchUpStrategy compares what a goal should hold by now under a
// linear progress assumption against what it actually holds, and prices the
// incremental monthly contribution needed versus the never-behind baseline.
func ComputeCatchUpStrategy(req CatchUpRequest) (*CatchUpStrategy, error) {
	if !req.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target_amount must be positive, got %s", req.TargetAmount)
	}
	if req.CurrentAmount.IsNegative() {
		return nil, fmt.Errorf("current_amount must not be negative, got %s", req.CurrentAmount)
	}

	target := req.TargetAmount.InexactFloat64()
	current := req.CurrentAmount.InexactFloat64()
	horizon := req.YearsBehindSchedule + req.YearsRemaining

	expected := target
	if horizon > 0 {
		expected = target * (req.YearsBehindSchedule / horizon)
	}
	shortfall := math.Max(0, expected-current)

	// Baseline: saving toward the target from zero over the full horizon.
	baseline := annuityPayment(target, req.ExpectedReturn/monthsPerYear, int(horizon*monthsPerYear))

	required, err := ComputeFundingRequirements(FundingRequest{
		TargetAmount:   req.TargetAmount,
		CurrentAmount:  req.CurrentAmount,
		YearsToGoal:    req.YearsRemaining,
		ExpectedReturn: req.ExpectedReturn,
	})
	if err != nil {
		return nil, err
	}
	requiredMonthly := required.RequiredMonthlySavings.InexactFloat64()
	incremental := requiredMonthly - baseline

	return &CatchUpStrategy{
		ExpectedCurrentAmount: roundMoney(expected),
		Shortfall:             roundMoney(shortfall),
		BaselineMonthly:       roundMoney(baseline),
		RequiredMonthly:       roundMoney(requiredMonthly),
		IncrementalMonthly:    roundMoney(incremental),
		Feasibility:           classifyFeasibility(incremental, baseline),
	}, nil
}

func classifyFeasibility(incremental, baseline float64) Feasibility {
	if incremental <= 0 {
		return FeasibilityVeryFeasible
	}
	if baseline <= 0 {
		return FeasibilityMajorRevision
	}
	ratio := incremental / baseline
	switch {
	case ratio < 0.25:
		return FeasibilityVeryFeasible
	case ratio < 0.50:
		return FeasibilityFeasible
	case ratio < 1.00:
		return FeasibilityChallenging
	default:
		return FeasibilityMajorRevision
	}
}
