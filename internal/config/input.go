package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/goalplan/goalplan/internal/calculation"
	"github.com/goalplan/goalplan/internal/domain"
)

// PlanInput is the complete YAML plan file: the household's goals and
// accounts plus the planning assumptions.
type PlanInput struct {
	Household    Household           `yaml:"household" json:"household"`
	Assumptions  Assumptions         `yaml:"assumptions" json:"assumptions"`
	AssetClasses []domain.AssetClass `yaml:"asset_classes,omitempty" json:"asset_classes,omitempty"` // CMA overrides
}

// Household groups the entities the core reads.
type Household struct {
	Name           string           `yaml:"name" json:"name"`
	Goals          []domain.Goal    `yaml:"goals" json:"goals"`
	Accounts       []domain.Account `yaml:"accounts" json:"accounts"`
	TotalCapital   decimal.Decimal  `yaml:"total_capital,omitempty" json:"total_capital,omitempty"` // Zero: derive from account balances
	MonthlySavings decimal.Decimal  `yaml:"monthly_savings,omitempty" json:"monthly_savings,omitempty"`
}

// Assumptions carries the global planning parameters.
type Assumptions struct {
	InflationRate            float64            `yaml:"inflation_rate" json:"inflation_rate"`                         // Default: 0.03
	RiskFreeRate             float64            `yaml:"risk_free_rate" json:"risk_free_rate"`                         // Default: 0.04
	TargetSuccessProbability float64            `yaml:"target_success_probability" json:"target_success_probability"` // Default: 0.85
	MonteCarlo               MonteCarloSettings `yaml:"monte_carlo" json:"monte_carlo"`
}

// MonteCarloSettings configures the stochastic runs.
type MonteCarloSettings struct {
	Iterations int    `yaml:"iterations" json:"iterations"` // Default: 5000
	Seed       uint64 `yaml:"seed" json:"seed"`             // 0 means time-derived
}

// InputParser handles parsing of plan input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file, applies defaults, and
// validates it against the boundary rules the core assumes.
func (ip *InputParser) LoadFromFile(filename string) (*PlanInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input PlanInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&input)

	if err := ip.ValidatePlan(&input); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &input, nil
}

// ApplyDefaults fills the blanks a hand-written plan file usually leaves:
// generated IDs, 100% funding, horizons derived from target dates, and the
// reference assumption values.
func (ip *InputParser) ApplyDefaults(input *PlanInput) {
	for i := range input.Household.Goals {
		goal := &input.Household.Goals[i]
		if goal.ID == "" {
			goal.ID = uuid.NewString()
		}
		if goal.FundingPercentage.IsZero() {
			goal.FundingPercentage = decimal.NewFromInt(100)
		}
		if goal.YearsToGoal == 0 && !goal.TargetDate.IsZero() {
			goal.YearsToGoal = yearsUntil(goal.TargetDate)
		}
		if goal.TargetDate.IsZero() && goal.YearsToGoal > 0 {
			goal.TargetDate = time.Now().AddDate(0, int(goal.YearsToGoal*12), 0)
		}
	}
	for i := range input.Household.Accounts {
		if input.Household.Accounts[i].ID == "" {
			input.Household.Accounts[i].ID = uuid.NewString()
		}
	}

	if input.Assumptions.InflationRate == 0 {
		input.Assumptions.InflationRate = 0.03
	}
	if input.Assumptions.RiskFreeRate == 0 {
		input.Assumptions.RiskFreeRate = calculation.RiskFreeRate
	}
	if input.Assumptions.TargetSuccessProbability == 0 {
		input.Assumptions.TargetSuccessProbability = 0.85
	}
	if input.Assumptions.MonteCarlo.Iterations == 0 {
		input.Assumptions.MonteCarlo.Iterations = calculation.DefaultIterations
	}
}

// ValidatePlan rejects invalid input before it reaches the core.
func (ip *InputParser) ValidatePlan(input *PlanInput) error {
	if len(input.Household.Goals) == 0 {
		return fmt.Errorf("no goals provided")
	}

	for i := range input.Household.Goals {
		if err := ip.validateGoal(i, &input.Household.Goals[i]); err != nil {
			return err
		}
	}
	for i := range input.Household.Accounts {
		if err := ip.validateAccount(i, &input.Household.Accounts[i]); err != nil {
			return err
		}
	}
	for i := range input.AssetClasses {
		if err := ip.validateAssetClass(i, &input.AssetClasses[i]); err != nil {
			return err
		}
	}

	a := input.Assumptions
	if a.InflationRate < -0.10 || a.InflationRate > 0.20 {
		return fmt.Errorf("inflation_rate must be between -10%% and 20%%, got %.4f", a.InflationRate)
	}
	if a.TargetSuccessProbability < 0.5 || a.TargetSuccessProbability > 0.99 {
		return fmt.Errorf("target_success_probability must be in [0.5, 0.99], got %.4f", a.TargetSuccessProbability)
	}
	if a.MonteCarlo.Iterations < calculation.MinIterations || a.MonteCarlo.Iterations > calculation.MaxIterations {
		return fmt.Errorf("monte_carlo.iterations must be in [%d, %d], got %d",
			calculation.MinIterations, calculation.MaxIterations, a.MonteCarlo.Iterations)
	}
	if input.Household.TotalCapital.IsNegative() {
		return fmt.Errorf("household total_capital must not be negative, got %s", input.Household.TotalCapital)
	}
	if input.Household.MonthlySavings.IsNegative() {
		return fmt.Errorf("household monthly_savings must not be negative, got %s", input.Household.MonthlySavings)
	}

	return nil
}

func (ip *InputParser) validateGoal(i int, goal *domain.Goal) error {
	if !goal.TargetAmount.IsPositive() {
		return fmt.Errorf("goal %d (%s): target_amount must be positive, got %s", i, goal.ID, goal.TargetAmount)
	}
	if goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("goal %d (%s): current_amount must not be negative, got %s", i, goal.ID, goal.CurrentAmount)
	}
	if goal.YearsToGoal < 0 {
		return fmt.Errorf("goal %d (%s): years_to_goal must not be negative, got %.2f", i, goal.ID, goal.YearsToGoal)
	}
	if !goal.Priority.Valid() {
		return fmt.Errorf("goal %d (%s): priority is required (essential, important or aspirational)", i, goal.ID)
	}
	hundred := decimal.NewFromInt(100)
	if !goal.FundingPercentage.IsPositive() || goal.FundingPercentage.GreaterThan(hundred) {
		return fmt.Errorf("goal %d (%s): funding_percentage must be in (0, 100], got %s", i, goal.ID, goal.FundingPercentage)
	}
	return nil
}

func (ip *InputParser) validateAccount(i int, acct *domain.Account) error {
	if !acct.Type.Valid() {
		return fmt.Errorf("account %d (%s): type is required (taxable, tax_deferred or tax_exempt)", i, acct.ID)
	}
	if acct.Balance.IsNegative() {
		return fmt.Errorf("account %d (%s): balance must not be negative, got %s", i, acct.ID, acct.Balance)
	}
	return nil
}

func (ip *InputParser) validateAssetClass(i int, ac *domain.AssetClass) error {
	if ac.Code == "" {
		return fmt.Errorf("asset class %d: code is required", i)
	}
	if ac.ExpectedReturn < 0 || ac.ExpectedReturn > 0.20 {
		return fmt.Errorf("asset class %d (%s): expected_return must be in [0, 0.20], got %.4f", i, ac.Code, ac.ExpectedReturn)
	}
	if ac.Volatility <= 0 || ac.Volatility >= 1 {
		return fmt.Errorf("asset class %d (%s): volatility must be in (0, 1), got %.4f", i, ac.Code, ac.Volatility)
	}
	if ac.TaxEfficiency < 0 || ac.TaxEfficiency > 1 {
		return fmt.Errorf("asset class %d (%s): tax_efficiency must be in [0, 1], got %.4f", i, ac.Code, ac.TaxEfficiency)
	}
	return nil
}

// CMATable merges the reference assumptions with any per-class overrides
// from the plan file.
func (pi *PlanInput) CMATable() domain.CMATable {
	table := domain.DefaultCMATable()
	for _, ac := range pi.AssetClasses {
		table[ac.Code] = ac
	}
	return table
}

func yearsUntil(date time.Time) float64 {
	years := time.Until(date).Hours() / 24 / 365.25
	if years < 0 {
		return 0
	}
	return years
}
