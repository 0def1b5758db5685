package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goalplan/goalplan/internal/domain"
	"github.com/goalplan/goalplan/pkg/money"
)

// ConsoleFormatter renders a concise plan summary suitable for a terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(plan *domain.HouseholdPlan) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSEHOLD PLAN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Total Capital:   %s\n", money.FromDecimal(plan.TotalCapital).Round().Format())
	fmt.Fprintf(&buf, "Monthly Savings: %s\n", money.FromDecimal(plan.MonthlySavings).Round().Format())
	fmt.Fprintln(&buf)

	for _, gp := range plan.Goals {
		fmt.Fprintf(&buf, "%s [%s, %.1fy]: Allocated=%s Monthly=%s\n",
			goalLabel(gp.Goal),
			gp.Goal.Priority,
			gp.Goal.YearsToGoal,
			money.FromDecimal(gp.AllocatedCapital).Round().Format(),
			money.FromDecimal(gp.MonthlyContribution).Round().Format(),
		)
		fmt.Fprintf(&buf, "  Portfolio: risk=%.2f return=%s risk(vol)=%s sharpe=%.2f\n",
			gp.Portfolio.RiskTolerance,
			FormatPercentage(gp.Portfolio.ExpectedReturn),
			FormatPercentage(gp.Portfolio.ExpectedRisk),
			gp.Portfolio.SharpeRatio,
		)
		fmt.Fprintf(&buf, "  Weights: %s\n", formatWeights(gp.Portfolio.Weights))
		if gp.Simulation != nil {
			fmt.Fprintf(&buf, "  Success=%.1f%% Median=%s P10=%s P90=%s\n",
				gp.Simulation.SuccessProbability*100,
				money.FromDecimal(gp.Simulation.MedianOutcome).Format(),
				money.FromDecimal(gp.Simulation.Percentile10).Format(),
				money.FromDecimal(gp.Simulation.Percentile90).Format(),
			)
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "ACCOUNT PLACEMENT")
	for _, acct := range plan.Accounts {
		fmt.Fprintf(&buf, "%s: total=%s\n", acct.AccountID, money.FromDecimal(acct.Total()).Round().Format())
		for _, code := range domain.AllAssetClasses {
			if amount, ok := acct.Holdings[code]; ok && amount.IsPositive() {
				fmt.Fprintf(&buf, "  %-12s %s\n", code, money.FromDecimal(amount).Round().Format())
			}
		}
	}
	if len(plan.Unplaced) > 0 {
		fmt.Fprintln(&buf, "UNPLACED (no account capacity):")
		for _, code := range domain.AllAssetClasses {
			if amount, ok := plan.Unplaced[code]; ok {
				fmt.Fprintf(&buf, "  %-12s %s\n", code, money.FromDecimal(amount).Round().Format())
			}
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Household: value=%s return=%s risk=%s sharpe=%.2f\n",
		money.FromDecimal(plan.Aggregate.TotalValue).Round().Format(),
		FormatPercentage(plan.Aggregate.WeightedReturn),
		FormatPercentage(plan.Aggregate.WeightedRisk),
		plan.Aggregate.SharpeRatio,
	)
	fmt.Fprintf(&buf, "Mix: %s\n", formatWeights(plan.Aggregate.AggregateAllocation))

	return buf.Bytes(), nil
}

// FormatPercentage renders a fraction as a percentage with one decimal.
func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func goalLabel(goal domain.Goal) string {
	if goal.Name != "" {
		return goal.Name
	}
	return goal.ID
}

func formatWeights(weights map[domain.AssetClassCode]float64) string {
	codes := make([]string, 0, len(weights))
	for code := range weights {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)

	var buf bytes.Buffer
	for i, code := range codes {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%s=%.1f%%", code, weights[domain.AssetClassCode(code)]*100)
	}
	return buf.String()
}
