package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goalplan/goalplan/internal/domain"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc returns a pseudo-random seed (override for deterministic Monte Carlo tests).
var seedFunc = func() uint64 { return uint64(time.Now().UnixNano()) }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() uint64) { seedFunc = f }

// SolverSettings holds the tunable constants of the required-contribution
// solver. The two-phase structure (cheap search, expensive verification) is
// functionally significant: the reported probability is always computed at
// full fidelity.
type SolverSettings struct {
	SearchIterations int     // Default: 1000 (reduced count during binary search)
	VerifyIterations int     // Default: 5000 (final verification run)
	ToleranceDollars float64 // Default: 10 (absolute bracket width to converge)
	MaxSearchSteps   int     // Default: 50 (forced termination bound)
}

// DefaultSolverSettings returns the reference solver tuning.
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		SearchIterations: 1000,
		VerifyIterations: DefaultIterations,
		ToleranceDollars: 10,
		MaxSearchSteps:   50,
	}
}

// PlanningEngine orchestrates all goal-funding calculations. It carries the
// capital market assumptions explicitly so tests can substitute alternative
// assumption sets without cross-test interference.
type PlanningEngine struct {
	CMA          domain.CMATable
	RiskFreeRate float64
	Solver       SolverSettings
	Logger       Logger
}

// NewPlanningEngine creates a planning engine over the given CMA table.
// A nil table falls back to the reference assumptions.
func NewPlanningEngine(cma domain.CMATable) *PlanningEngine {
	if cma == nil {
		cma = domain.DefaultCMATable()
	}
	return &PlanningEngine{
		CMA:          cma,
		RiskFreeRate: RiskFreeRate,
		Solver:       DefaultSolverSettings(),
		Logger:       NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *PlanningEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// PlanRequest carries everything BuildHouseholdPlan needs. Goals, accounts
// and assumptions are read-only inputs; the engine never persists anything.
type PlanRequest struct {
	Goals          []domain.Goal
	Accounts       []domain.Account
	TotalCapital   decimal.Decimal // Zero means: derive from the sum of account balances
	MonthlySavings decimal.Decimal
	RunSimulations bool
	Iterations     int    // Zero means DefaultIterations
	Seed           uint64 // Zero means an unseeded (time-derived) run
}

// BuildHouseholdPlan runs the full planning pipeline: capital allocation
// across goals, a glide-path portfolio per goal, per-goal success odds,
// tax-aware account placement, and the household-level rollup.
func (e *PlanningEngine) BuildHouseholdPlan(ctx context.Context, req PlanRequest) (*domain.HouseholdPlan, error) {
	if len(req.Goals) == 0 {
		return nil, fmt.Errorf("household plan requires at least one goal")
	}

	capital := req.TotalCapital
	if capital.IsZero() {
		for _, acct := range req.Accounts {
			capital = capital.Add(acct.Balance)
		}
	}

	goalAllocations, err := AllocateCapitalToGoals(req.Goals, capital)
	if err != nil {
		return nil, fmt.Errorf("capital allocation failed: %w", err)
	}

	savingsAllocations := map[string]decimal.Decimal{}
	if req.MonthlySavings.IsPositive() {
		savingsAllocations, err = e.AllocateMonthlySavings(req.Goals, req.MonthlySavings)
		if err != nil {
			return nil, fmt.Errorf("monthly savings allocation failed: %w", err)
		}
	}

	seed := req.Seed
	if seed == 0 {
		seed = seedFunc()
	}

	goalPlans := make([]domain.GoalPlan, 0, len(req.Goals))
	portfolios := make([]domain.AllocationResult, 0, len(req.Goals))
	for i, goal := range req.Goals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		allocated := goalAllocations[goal.ID]
		portfolio, err := e.BuildGoalPortfolio(goal, allocated)
		if err != nil {
			return nil, fmt.Errorf("portfolio for goal %q failed: %w", goal.ID, err)
		}
		portfolios = append(portfolios, portfolio)

		plan := domain.GoalPlan{
			Goal:                goal,
			AllocatedCapital:    allocated,
			MonthlyContribution: savingsAllocations[goal.ID],
			Portfolio:           portfolio,
		}

		if req.RunSimulations {
			// Allocated capital is new money on top of what the goal already holds.
			sim, err := e.ComputeSuccessProbability(SimulationRequest{
				TargetAmount:        goal.TargetAmount,
				CurrentAmount:       goal.CurrentAmount.Add(allocated),
				MonthlyContribution: plan.MonthlyContribution,
				YearsToGoal:         goal.YearsToGoal,
				ExpectedReturn:      portfolio.ExpectedReturn,
				ReturnVolatility:    portfolio.ExpectedRisk,
				Iterations:          req.Iterations,
				Seed:                seed + uint64(i),
			})
			if err != nil {
				return nil, fmt.Errorf("simulation for goal %q failed: %w", goal.ID, err)
			}
			plan.Simulation = sim
		}

		goalPlans = append(goalPlans, plan)
	}

	placement, err := PlaceAssetsInAccounts(portfolios, req.Accounts)
	if err != nil {
		return nil, fmt.Errorf("account placement failed: %w", err)
	}

	aggregate := e.AggregateHousehold(portfolios, goalAllocations)

	e.Logger.Infof("household plan built: %d goals, %d accounts, total value %s",
		len(goalPlans), len(placement.Accounts), aggregate.TotalValue.StringFixed(2))

	return &domain.HouseholdPlan{
		GeneratedAt:    nowFunc(),
		TotalCapital:   capital,
		MonthlySavings: req.MonthlySavings,
		Goals:          goalPlans,
		Accounts:       placement.Accounts,
		Unplaced:       placement.Unplaced,
		Aggregate:      aggregate,
	}, nil
}
