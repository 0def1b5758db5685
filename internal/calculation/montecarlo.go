package calculation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/goalplan/goalplan/internal/domain"
)

const (
	// DefaultIterations is the full-fidelity Monte Carlo iteration count.
	DefaultIterations = 5000
	// MinIterations and MaxIterations bound the accepted iteration range.
	MinIterations = 1000
	MaxIterations = 10000

	// Number of simulation paths running concurrently.
	maxConcurrentPaths = 10

	monthsPerYear = 12
)

// SimulationRequest describes one goal-funding Monte Carlo run.
type SimulationRequest struct {
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	MonthlyContribution decimal.Decimal
	YearsToGoal         float64
	ExpectedReturn      float64 // Annualized
	ReturnVolatility    float64 // Annualized
	Iterations          int     // Zero means DefaultIterations
	Seed                uint64  // Zero means an unseeded (time-derived) run
}

func (r SimulationRequest) iterations() int {
	if r.Iterations <= 0 {
		return DefaultIterations
	}
	return r.Iterations
}

// ProjectTerminalValues simulates independent portfolio-value paths under
// random monthly returns and returns the terminal value of each path.
//
// Per path, starting from CurrentAmount, each month draws a normally
// distributed return with mean ExpectedReturn/12 and standard deviation
// ReturnVolatility/sqrt(12), then posts the contribution after growth.
// Iteration i draws from its own PCG stream keyed on (seed, i), so results
// are reproducible regardless of goroutine scheduling and order-independent
// in aggregate.
func (e *PlanningEngine) ProjectTerminalValues(req SimulationRequest) []float64 {
	months := int(req.YearsToGoal * monthsPerYear)
	if months <= 0 {
		// No time for growth: a single degenerate value.
		return []float64{req.CurrentAmount.InexactFloat64()}
	}

	iterations := req.iterations()
	seed := req.Seed
	if seed == 0 {
		seed = seedFunc()
	}

	current := req.CurrentAmount.InexactFloat64()
	contribution := req.MonthlyContribution.InexactFloat64()
	monthlyMean := req.ExpectedReturn / monthsPerYear
	monthlySigma := req.ReturnVolatility / math.Sqrt(monthsPerYear)

	terminals := make([]float64, iterations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentPaths)

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func(path int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			dist := distuv.Normal{
				Mu:    monthlyMean,
				Sigma: monthlySigma,
				Src:   rand.NewPCG(seed, uint64(path)),
			}

			value := current
			for m := 0; m < months; m++ {
				value = value*(1+dist.Rand()) + contribution
			}
			terminals[path] = value
		}(i)
	}
	wg.Wait()

	return terminals
}

// ComputeSuccessProbability runs the projection engine and reduces the
// terminal-value paths to a probability of meeting the target, plus the
// outcome distribution (linear-interpolation order statistics).
func (e *PlanningEngine) ComputeSuccessProbability(req SimulationRequest) (*domain.SimulationResult, error) {
	if !req.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target_amount must be positive, got %s", req.TargetAmount)
	}
	if req.CurrentAmount.IsNegative() {
		return nil, fmt.Errorf("current_amount must not be negative, got %s", req.CurrentAmount)
	}

	terminals := e.ProjectTerminalValues(req)
	target := req.TargetAmount.InexactFloat64()

	successes := 0
	var shortfalls []float64
	for _, v := range terminals {
		if v >= target {
			successes++
		} else {
			shortfalls = append(shortfalls, target-v)
		}
	}
	probability := float64(successes) / float64(len(terminals))

	sort.Float64s(terminals)
	mean, _ := stats.Mean(terminals)
	stdDev := 0.0
	if len(terminals) > 1 {
		stdDev, _ = stats.StandardDeviationSample(terminals)
	}

	medianShortfall := 0.0
	if len(shortfalls) > 0 {
		medianShortfall, _ = stats.Median(shortfalls)
	}

	return &domain.SimulationResult{
		SuccessProbability: roundProbability(probability),
		ShortfallRisk:      roundProbability(1 - probability),
		MedianOutcome:      roundMoney(quantile(0.50, terminals)),
		Percentile10:       roundMoney(quantile(0.10, terminals)),
		Percentile25:       roundMoney(quantile(0.25, terminals)),
		Percentile75:       roundMoney(quantile(0.75, terminals)),
		Percentile90:       roundMoney(quantile(0.90, terminals)),
		MeanOutcome:        roundMoney(mean),
		StdDevOutcome:      roundMoney(stdDev),
		MedianShortfall:    roundMoney(medianShortfall),
		Iterations:         len(terminals),
	}, nil
}

// quantile computes a linear-interpolation order statistic over a slice
// already sorted ascending.
func quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// roundMoney applies the reporting convention for currency: 2 decimal places.
func roundMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// roundProbability applies the reporting convention for probabilities: 4 decimal places.
func roundProbability(p float64) float64 {
	return math.Round(p*10000) / 10000
}
