package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a single financial goal the household is saving toward
type Goal struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	TargetAmount  decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `yaml:"current_amount" json:"current_amount"`
	YearsToGoal   float64         `yaml:"years_to_goal" json:"years_to_goal"`
	Priority      GoalPriority    `yaml:"priority" json:"priority"`

	// FundingPercentage is the fraction (0-100) of the computed need this goal
	// actually draws, for goals sharing a resource (e.g. two kids, one 529 need).
	FundingPercentage decimal.Decimal `yaml:"funding_percentage" json:"funding_percentage"`

	TargetDate time.Time `yaml:"target_date" json:"target_date"`
}

// FundingNeed returns the capital the goal still needs, scaled by its
// funding percentage. Never negative: an over-funded goal needs nothing.
// An unset funding percentage means the goal draws its full need.
func (g *Goal) FundingNeed() decimal.Decimal {
	gap := g.TargetAmount.Sub(g.CurrentAmount)
	if gap.IsNegative() {
		return decimal.Zero
	}
	pct := g.FundingPercentage
	if pct.IsZero() {
		pct = decimal.NewFromInt(100)
	}
	return gap.Mul(pct).Div(decimal.NewFromInt(100))
}

// MonthsToGoal returns the goal horizon in whole months.
func (g *Goal) MonthsToGoal() int {
	if g.YearsToGoal <= 0 {
		return 0
	}
	return int(g.YearsToGoal * 12)
}
