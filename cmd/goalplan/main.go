package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/goalplan/goalplan/internal/calculation"
	"github.com/goalplan/goalplan/internal/config"
	"github.com/goalplan/goalplan/internal/output"
	"github.com/goalplan/goalplan/pkg/money"
)

var (
	flagVerbose bool

	flagConfigPath string
	flagFormat     string

	flagTarget      float64
	flagCurrent     float64
	flagMonthly     float64
	flagYears       float64
	flagReturn      float64
	flagVolatility  float64
	flagInflation   float64
	flagIterations  int
	flagSeed        uint64
	flagProbability float64
	flagYearsBehind float64
)

// zerologAdapter bridges the engine's Logger interface onto zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func (z zerologAdapter) Debugf(format string, args ...any) { z.log.Debug().Msgf(format, args...) }
func (z zerologAdapter) Infof(format string, args ...any)  { z.log.Info().Msgf(format, args...) }
func (z zerologAdapter) Warnf(format string, args ...any)  { z.log.Warn().Msgf(format, args...) }
func (z zerologAdapter) Errorf(format string, args ...any) { z.log.Error().Msgf(format, args...) }

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

func newEngine() *calculation.PlanningEngine {
	engine := calculation.NewPlanningEngine(nil)
	engine.SetLogger(zerologAdapter{log: newLogger()})
	return engine
}

func main() {
	root := &cobra.Command{
		Use:   "goalplan",
		Short: "Household goal-funding planner",
		Long: "goalplan splits capital and savings across financial goals, builds a glide-path\n" +
			"portfolio per goal, estimates success odds by Monte Carlo simulation, and places\n" +
			"assets into accounts by tax efficiency.",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newPlanCmd(), newSimulateCmd(), newContributionCmd(), newFundingCmd(), newCatchUpCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the full planning pipeline from a YAML plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := config.NewInputParser().LoadFromFile(flagConfigPath)
			if err != nil {
				return err
			}

			engine := calculation.NewPlanningEngine(input.CMATable())
			engine.RiskFreeRate = input.Assumptions.RiskFreeRate
			engine.SetLogger(zerologAdapter{log: newLogger()})

			plan, err := engine.BuildHouseholdPlan(context.Background(), calculation.PlanRequest{
				Goals:          input.Household.Goals,
				Accounts:       input.Household.Accounts,
				TotalCapital:   input.Household.TotalCapital,
				MonthlySavings: input.Household.MonthlySavings,
				RunSimulations: true,
				Iterations:     input.Assumptions.MonteCarlo.Iterations,
				Seed:           input.Assumptions.MonteCarlo.Seed,
			})
			if err != nil {
				return err
			}

			formatter := output.GetFormatterByName(flagFormat)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %v)", flagFormat, output.AvailableFormatterNames())
			}
			data, err := formatter.Format(plan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagConfigPath, "config", "c", "plan.yaml", "path to the YAML plan file")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "output format (console, json)")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo success probability for a single goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newEngine().ComputeSuccessProbability(calculation.SimulationRequest{
				TargetAmount:        decimal.NewFromFloat(flagTarget),
				CurrentAmount:       decimal.NewFromFloat(flagCurrent),
				MonthlyContribution: decimal.NewFromFloat(flagMonthly),
				YearsToGoal:         flagYears,
				ExpectedReturn:      flagReturn,
				ReturnVolatility:    flagVolatility,
				Iterations:          flagIterations,
				Seed:                flagSeed,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Success probability: %.2f%%\n", result.SuccessProbability*100)
			fmt.Fprintf(out, "Median outcome:      %s\n", money.FromDecimal(result.MedianOutcome).Format())
			fmt.Fprintf(out, "P10 / P25 / P75 / P90: %s / %s / %s / %s\n",
				money.FromDecimal(result.Percentile10).Format(),
				money.FromDecimal(result.Percentile25).Format(),
				money.FromDecimal(result.Percentile75).Format(),
				money.FromDecimal(result.Percentile90).Format(),
			)
			if result.MedianShortfall.IsPositive() {
				fmt.Fprintf(out, "Median shortfall (failing paths): %s\n", money.FromDecimal(result.MedianShortfall).Format())
			}
			return nil
		},
	}
	addGoalFlags(cmd)
	cmd.Flags().Float64VarP(&flagMonthly, "monthly", "m", 0, "monthly contribution")
	cmd.Flags().Float64Var(&flagVolatility, "volatility", 0.15, "annual return volatility")
	cmd.Flags().IntVar(&flagIterations, "iterations", calculation.DefaultIterations, "simulation iterations")
	cmd.Flags().Uint64Var(&flagSeed, "seed", 0, "random seed (0 = time-derived)")
	return cmd
}

func newContributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribution",
		Short: "Solve the monthly contribution needed for a target success probability",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newEngine().RequiredContribution(calculation.ContributionRequest{
				TargetAmount:      decimal.NewFromFloat(flagTarget),
				CurrentAmount:     decimal.NewFromFloat(flagCurrent),
				YearsToGoal:       flagYears,
				TargetProbability: flagProbability,
				ExpectedReturn:    flagReturn,
				ReturnVolatility:  flagVolatility,
				Seed:              flagSeed,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Required monthly: %s (annual %s)\n",
				money.FromDecimal(result.RequiredMonthly).Format(),
				money.FromDecimal(result.RequiredAnnual).Format(),
			)
			fmt.Fprintf(out, "Estimated success probability: %.2f%%\n", result.EstimatedSuccessProbability*100)
			fmt.Fprintf(out, "Median outcome: %s\n", money.FromDecimal(result.MedianOutcome).Format())
			return nil
		},
	}
	addGoalFlags(cmd)
	cmd.Flags().Float64VarP(&flagProbability, "probability", "p", 0.85, "target success probability [0.5, 0.99]")
	cmd.Flags().Float64Var(&flagVolatility, "volatility", 0.15, "annual return volatility")
	cmd.Flags().Uint64Var(&flagSeed, "seed", 0, "random seed (0 = time-derived)")
	return cmd
}

func newFundingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funding",
		Short: "Closed-form funding requirements (no simulation)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := calculation.ComputeFundingRequirements(calculation.FundingRequest{
				TargetAmount:   decimal.NewFromFloat(flagTarget),
				CurrentAmount:  decimal.NewFromFloat(flagCurrent),
				YearsToGoal:    flagYears,
				ExpectedReturn: flagReturn,
				InflationRate:  flagInflation,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Inflation-adjusted target: %s\n", money.FromDecimal(result.InflationAdjustedTarget).Format())
			fmt.Fprintf(out, "Future value of current:   %s\n", money.FromDecimal(result.FutureValueOfCurrent).Format())
			fmt.Fprintf(out, "Remaining need:            %s\n", money.FromDecimal(result.RemainingNeed).Format())
			fmt.Fprintf(out, "Required monthly savings:  %s\n", money.FromDecimal(result.RequiredMonthlySavings).Format())
			fmt.Fprintf(out, "Lump sum today:            %s\n", money.FromDecimal(result.LumpSumToday).Format())
			return nil
		},
	}
	addGoalFlags(cmd)
	cmd.Flags().Float64Var(&flagInflation, "inflation", 0.03, "annual inflation rate applied to the target")
	return cmd
}

func newCatchUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catchup",
		Short: "Catch-up strategy for a behind-schedule goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := calculation.ComputeCatchUpStrategy(calculation.CatchUpRequest{
				TargetAmount:        decimal.NewFromFloat(flagTarget),
				CurrentAmount:       decimal.NewFromFloat(flagCurrent),
				YearsRemaining:      flagYears,
				YearsBehindSchedule: flagYearsBehind,
				ExpectedReturn:      flagReturn,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expected by now:    %s\n", money.FromDecimal(result.ExpectedCurrentAmount).Format())
			fmt.Fprintf(out, "Shortfall:          %s\n", money.FromDecimal(result.Shortfall).Format())
			fmt.Fprintf(out, "Baseline monthly:   %s\n", money.FromDecimal(result.BaselineMonthly).Format())
			fmt.Fprintf(out, "Required monthly:   %s\n", money.FromDecimal(result.RequiredMonthly).Format())
			fmt.Fprintf(out, "Incremental:        %s\n", money.FromDecimal(result.IncrementalMonthly).Format())
			fmt.Fprintf(out, "Feasibility:        %s\n", result.Feasibility)
			return nil
		},
	}
	addGoalFlags(cmd)
	cmd.Flags().Float64Var(&flagYearsBehind, "years-behind", 0, "years behind the original schedule")
	return cmd
}

func addGoalFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&flagTarget, "target", "t", 0, "goal target amount")
	cmd.Flags().Float64Var(&flagCurrent, "current", 0, "current amount saved")
	cmd.Flags().Float64VarP(&flagYears, "years", "y", 0, "years to goal")
	cmd.Flags().Float64VarP(&flagReturn, "return", "r", 0.07, "expected annual return")
	_ = cmd.MarkFlagRequired("target")
}
