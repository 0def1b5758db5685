package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ContributionRequest asks for the minimal monthly contribution that drives
// a goal's success probability to the target probability.
type ContributionRequest struct {
	TargetAmount      decimal.Decimal
	CurrentAmount     decimal.Decimal
	YearsToGoal       float64
	TargetProbability float64 // In [0.5, 0.99]
	ExpectedReturn    float64
	ReturnVolatility  float64
	Seed              uint64 // Zero means an unseeded (time-derived) run
}

// ContributionResult reports the calibrated contribution. The estimated
// probability and median come from a full-fidelity verification run on the
// final midpoint, never from the reduced-iteration search phase.
type ContributionResult struct {
	RequiredMonthly             decimal.Decimal `json:"required_monthly"`
	RequiredAnnual              decimal.Decimal `json:"required_annual"`
	EstimatedSuccessProbability float64         `json:"estimated_success_probability"`
	MedianOutcome               decimal.Decimal `json:"median_outcome"`
	SearchSteps                 int             `json:"search_steps"`
	Converged                   bool            `json:"converged"`
}

// RequiredContribution binary-searches the monthly contribution needed to
// reach the target success probability. The search runs at a reduced
// iteration count for speed; the bracket seeds off the deterministic annuity
// payment and converges to an absolute dollar tolerance. On forced
// termination it returns the best midpoint found, since close enough is an
// acceptable practical answer for financial estimates.
func (e *PlanningEngine) RequiredContribution(req ContributionRequest) (*ContributionResult, error) {
	if !req.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target_amount must be positive, got %s", req.TargetAmount)
	}
	if req.TargetProbability < 0.5 || req.TargetProbability > 0.99 {
		return nil, fmt.Errorf("target_probability must be in [0.5, 0.99], got %.4f", req.TargetProbability)
	}

	seed := req.Seed
	if seed == 0 {
		seed = seedFunc()
	}

	// No time horizon: no search needed, the answer is the raw shortfall.
	if req.YearsToGoal <= 0 {
		shortfall := decimal.Max(decimal.Zero, req.TargetAmount.Sub(req.CurrentAmount))
		return &ContributionResult{
			RequiredMonthly:             shortfall.Round(2),
			RequiredAnnual:              shortfall.Round(2),
			EstimatedSuccessProbability: 1.0,
			MedianOutcome:               decimal.Max(req.CurrentAmount, req.TargetAmount).Round(2),
			Converged:                   true,
		}, nil
	}

	probabilityAt := func(monthly float64, iterations int) (float64, decimal.Decimal, error) {
		// The same seed for every evaluation keeps the search function
		// deterministic and monotone in the contribution.
		result, err := e.ComputeSuccessProbability(SimulationRequest{
			TargetAmount:        req.TargetAmount,
			CurrentAmount:       req.CurrentAmount,
			MonthlyContribution: decimal.NewFromFloat(monthly),
			YearsToGoal:         req.YearsToGoal,
			ExpectedReturn:      req.ExpectedReturn,
			ReturnVolatility:    req.ReturnVolatility,
			Iterations:          iterations,
			Seed:                seed,
		})
		if err != nil {
			return 0, decimal.Zero, err
		}
		return result.SuccessProbability, result.MedianOutcome, nil
	}

	// Zero contribution may already clear the bar.
	if p, _, err := probabilityAt(0, e.Solver.SearchIterations); err != nil {
		return nil, err
	} else if p >= req.TargetProbability {
		return e.verify(req, seed, 0, 0, true)
	}

	guess := e.initialGuess(req)
	low, high := 0.0, 3*guess
	if high <= 0 {
		high = e.Solver.ToleranceDollars * 4
	}

	// Grow the bracket until it contains the answer; the expected-return
	// seed can undershoot what a volatile portfolio actually needs.
	for grow := 0; grow < 10; grow++ {
		p, _, err := probabilityAt(high, e.Solver.SearchIterations)
		if err != nil {
			return nil, err
		}
		if p >= req.TargetProbability {
			break
		}
		low = high
		high *= 2
	}

	steps := 0
	converged := false
	for ; steps < e.Solver.MaxSearchSteps; steps++ {
		if high-low <= e.Solver.ToleranceDollars {
			converged = true
			break
		}
		mid := (low + high) / 2
		p, _, err := probabilityAt(mid, e.Solver.SearchIterations)
		if err != nil {
			return nil, err
		}
		if p >= req.TargetProbability {
			high = mid
		} else {
			low = mid
		}
	}

	return e.verify(req, seed, (low+high)/2, steps, converged)
}

// verify re-runs the simulation at full iteration count on the final
// contribution and assembles the result.
func (e *PlanningEngine) verify(req ContributionRequest, seed uint64, monthly float64, steps int, converged bool) (*ContributionResult, error) {
	result, err := e.ComputeSuccessProbability(SimulationRequest{
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       req.CurrentAmount,
		MonthlyContribution: decimal.NewFromFloat(monthly),
		YearsToGoal:         req.YearsToGoal,
		ExpectedReturn:      req.ExpectedReturn,
		ReturnVolatility:    req.ReturnVolatility,
		Iterations:          e.Solver.VerifyIterations,
		Seed:                seed + 1,
	})
	if err != nil {
		return nil, err
	}

	required := roundMoney(monthly)
	return &ContributionResult{
		RequiredMonthly:             required,
		RequiredAnnual:              required.Mul(decimal.NewFromInt(monthsPerYear)),
		EstimatedSuccessProbability: result.SuccessProbability,
		MedianOutcome:               result.MedianOutcome,
		SearchSteps:                 steps,
		Converged:                   converged,
	}, nil
}

// initialGuess seeds the bracket from the deterministic annuity payment, so
// the search starts near the risk-free answer.
func (e *PlanningEngine) initialGuess(req ContributionRequest) float64 {
	funding, err := ComputeFundingRequirements(FundingRequest{
		TargetAmount:   req.TargetAmount,
		CurrentAmount:  req.CurrentAmount,
		YearsToGoal:    req.YearsToGoal,
		ExpectedReturn: req.ExpectedReturn,
	})
	if err != nil {
		return 0
	}
	guess := funding.RequiredMonthlySavings.InexactFloat64()
	if guess < 0 {
		return 0
	}
	return guess
}
