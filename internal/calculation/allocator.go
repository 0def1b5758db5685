package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/goalplan/goalplan/internal/domain"
)

// AllocateCapitalToGoals distributes available capital across goals.
//
// When capital covers every goal's need, each goal is fully funded and the
// surplus is redistributed proportionally to each goal's share of total
// need. When capital is insufficient, goals fund in (priority, target date)
// order: priority beats urgency, and within equal priority the earlier
// target date wins. The first goal that cannot be fully funded takes
// whatever remains; everything after it gets zero.
func AllocateCapitalToGoals(goals []domain.Goal, totalCapital decimal.Decimal) (map[string]decimal.Decimal, error) {
	if err := validateGoalSet(goals); err != nil {
		return nil, err
	}
	if totalCapital.IsNegative() {
		return nil, fmt.Errorf("total capital must not be negative, got %s", totalCapital)
	}

	needs := make(map[string]decimal.Decimal, len(goals))
	for i := range goals {
		needs[goals[i].ID] = goals[i].FundingNeed()
	}
	return distributeByNeed(goals, needs, totalCapital), nil
}

// AllocateMonthlySavings distributes the household's ongoing monthly savings
// across goals under the same priority and tie-break rules as capital. Each
// goal's need is its deterministic required monthly contribution, using the
// expected return of the goal's glide-path portfolio.
func (e *PlanningEngine) AllocateMonthlySavings(goals []domain.Goal, totalMonthly decimal.Decimal) (map[string]decimal.Decimal, error) {
	if err := validateGoalSet(goals); err != nil {
		return nil, err
	}
	if totalMonthly.IsNegative() {
		return nil, fmt.Errorf("total monthly savings must not be negative, got %s", totalMonthly)
	}

	needs := make(map[string]decimal.Decimal, len(goals))
	for i := range goals {
		goal := goals[i]
		portfolio, err := e.BuildGoalPortfolio(goal, decimal.Zero)
		if err != nil {
			return nil, err
		}
		funding, err := ComputeFundingRequirements(FundingRequest{
			TargetAmount:   goal.TargetAmount,
			CurrentAmount:  goal.CurrentAmount,
			YearsToGoal:    goal.YearsToGoal,
			ExpectedReturn: portfolio.ExpectedReturn,
		})
		if err != nil {
			return nil, fmt.Errorf("required monthly for goal %q failed: %w", goal.ID, err)
		}
		need := funding.RequiredMonthlySavings
		if need.IsNegative() {
			need = decimal.Zero
		}
		pct := goal.FundingPercentage
		if pct.IsZero() {
			pct = decimal.NewFromInt(100)
		}
		needs[goal.ID] = need.Mul(pct).Div(decimal.NewFromInt(100))
	}
	return distributeByNeed(goals, needs, totalMonthly), nil
}

// distributeByNeed is the shared allocation pass: full funding plus
// proportional surplus when the pool suffices, priority waterfall when it
// does not. The fold threads an explicit remaining-pool value through each
// step rather than mutating shared state.
func distributeByNeed(goals []domain.Goal, needs map[string]decimal.Decimal, total decimal.Decimal) map[string]decimal.Decimal {
	totalNeed := decimal.Zero
	for _, need := range needs {
		totalNeed = totalNeed.Add(need)
	}

	allocations := make(map[string]decimal.Decimal, len(goals))

	if totalNeed.LessThanOrEqual(total) {
		surplus := total.Sub(totalNeed)
		if totalNeed.IsZero() {
			// Nothing to fund and nothing to scale the surplus by.
			for i := range goals {
				allocations[goals[i].ID] = decimal.Zero
			}
			return allocations
		}
		// Fund every need in full, then hand out the surplus proportionally.
		// The last goal takes the residual so the total is conserved exactly.
		distributed := decimal.Zero
		for i := range goals {
			id := goals[i].ID
			share := surplus.Mul(needs[id]).Div(totalNeed)
			if i == len(goals)-1 {
				share = surplus.Sub(distributed)
			}
			distributed = distributed.Add(share)
			allocations[id] = needs[id].Add(share)
		}
		return allocations
	}

	// Capital is scarce: priority beats urgency.
	ordered := make([]domain.Goal, len(goals))
	copy(ordered, goals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		return ordered[i].TargetDate.Before(ordered[j].TargetDate)
	})

	remaining := total
	for i := range ordered {
		id := ordered[i].ID
		grant := decimal.Min(needs[id], remaining)
		allocations[id] = grant
		remaining = remaining.Sub(grant)
	}
	return allocations
}

func validateGoalSet(goals []domain.Goal) error {
	if len(goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	seen := make(map[string]struct{}, len(goals))
	for i := range goals {
		if goals[i].ID == "" {
			return fmt.Errorf("goal %d has no ID", i)
		}
		if _, dup := seen[goals[i].ID]; dup {
			return fmt.Errorf("duplicate goal ID %q", goals[i].ID)
		}
		seen[goals[i].ID] = struct{}{}
	}
	return nil
}
