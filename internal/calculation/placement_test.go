package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalplan/goalplan/internal/domain"
)

func portfolioWithWeights(goalID string, amount int64, weights map[domain.AssetClassCode]float64) domain.AllocationResult {
	return domain.AllocationResult{
		GoalID:          goalID,
		AllocatedAmount: decimal.NewFromInt(amount),
		Weights:         weights,
	}
}

func accountSet() []domain.Account {
	return []domain.Account{
		{ID: "brokerage", Name: "Brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(100000)},
		{ID: "401k", Name: "Workplace 401k", Type: domain.AccountTaxDeferred, Balance: decimal.NewFromInt(60000)},
		{ID: "roth", Name: "Roth IRA", Type: domain.AccountTaxExempt, Balance: decimal.NewFromInt(40000)},
	}
}

func sumHoldings(result *PlacementResult) decimal.Decimal {
	total := decimal.Zero
	for _, account := range result.Accounts {
		total = total.Add(account.Total())
	}
	for _, amount := range result.Unplaced {
		total = total.Add(amount)
	}
	return total
}

func TestPlaceAssetsBondsPreferTaxDeferred(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 100000, map[domain.AssetClassCode]float64{
			domain.AssetUSEquity: 0.50,
			domain.AssetBonds:    0.50,
		}),
	}

	result, err := PlaceAssetsInAccounts(portfolios, accountSet())
	require.NoError(t, err)

	byID := make(map[string]domain.AccountAllocation)
	for _, account := range result.Accounts {
		byID[account.AccountID] = account
	}

	// All 50,000 of bonds fit in the 60,000 tax-deferred account, which then
	// tops up with equity; the tax-exempt account takes equity next and the
	// taxable account is untouched.
	assert.True(t, byID["401k"].Holdings[domain.AssetBonds].Equal(decimal.NewFromInt(50000)),
		"401k bonds: %s", byID["401k"].Holdings[domain.AssetBonds])
	assert.True(t, byID["401k"].Holdings[domain.AssetUSEquity].Equal(decimal.NewFromInt(10000)))
	assert.True(t, byID["roth"].Holdings[domain.AssetUSEquity].Equal(decimal.NewFromInt(40000)))
	assert.Empty(t, byID["brokerage"].Holdings)
	assert.Empty(t, result.Unplaced)
}

func TestPlaceAssetsHighGrowthPrefersTaxExempt(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 60000, map[domain.AssetClassCode]float64{
			domain.AssetEMEquity: 0.50,
			domain.AssetUSEquity: 0.50,
		}),
	}
	accounts := []domain.Account{
		{ID: "roth", Type: domain.AccountTaxExempt, Balance: decimal.NewFromInt(30000)},
		{ID: "brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(50000)},
	}

	result, err := PlaceAssetsInAccounts(portfolios, accounts)
	require.NoError(t, err)

	byID := make(map[string]domain.AccountAllocation)
	for _, account := range result.Accounts {
		byID[account.AccountID] = account
	}

	// Emerging markets, the highest-growth sleeve, consumes the tax-exempt
	// room before US equity gets any.
	assert.True(t, byID["roth"].Holdings[domain.AssetEMEquity].Equal(decimal.NewFromInt(30000)))
	assert.True(t, byID["brokerage"].Holdings[domain.AssetUSEquity].Equal(decimal.NewFromInt(30000)))
	assert.Empty(t, result.Unplaced)
}

func TestPlaceAssetsConservation(t *testing.T) {
	engine := testEngine()
	goals := []domain.Goal{
		{ID: "retire", TargetAmount: decimal.NewFromInt(900000), YearsToGoal: 25, Priority: domain.PriorityEssential},
		{ID: "house", TargetAmount: decimal.NewFromInt(150000), YearsToGoal: 6, Priority: domain.PriorityImportant},
	}

	var portfolios []domain.AllocationResult
	for _, goal := range goals {
		portfolio, err := engine.BuildGoalPortfolio(goal, decimal.NewFromInt(75000))
		require.NoError(t, err)
		portfolios = append(portfolios, portfolio)
	}

	result, err := PlaceAssetsInAccounts(portfolios, accountSet())
	require.NoError(t, err)

	// Placed plus unplaced equals the pooled target amounts.
	pooled := decimal.Zero
	for _, portfolio := range portfolios {
		for _, amount := range portfolio.TargetAmounts() {
			if amount.IsPositive() {
				pooled = pooled.Add(amount)
			}
		}
	}
	assert.True(t, sumHoldings(result).Equal(pooled),
		"placed+unplaced %s != pooled %s", sumHoldings(result), pooled)

	// No account exceeds its balance.
	for _, account := range accountSet() {
		var match domain.AccountAllocation
		for _, allocation := range result.Accounts {
			if allocation.AccountID == account.ID {
				match = allocation
			}
		}
		assert.True(t, match.Total().LessThanOrEqual(account.Balance),
			"account %s placed %s over balance %s", account.ID, match.Total(), account.Balance)
	}
}

func TestPlaceAssetsReportsUnplacedResidual(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 100000, map[domain.AssetClassCode]float64{
			domain.AssetUSEquity: 1.0,
		}),
	}
	accounts := []domain.Account{
		{ID: "small", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(30000)},
	}

	result, err := PlaceAssetsInAccounts(portfolios, accounts)
	require.NoError(t, err)

	require.NotNil(t, result.Unplaced)
	assert.True(t, result.Unplaced[domain.AssetUSEquity].Equal(decimal.NewFromInt(70000)),
		"unplaced %s", result.Unplaced[domain.AssetUSEquity])
}

func TestPlaceAssetsMultipleAccountsSameTypeFillInOrder(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 50000, map[domain.AssetClassCode]float64{
			domain.AssetBonds: 1.0,
		}),
	}
	accounts := []domain.Account{
		{ID: "401k-a", Type: domain.AccountTaxDeferred, Balance: decimal.NewFromInt(30000)},
		{ID: "401k-b", Type: domain.AccountTaxDeferred, Balance: decimal.NewFromInt(30000)},
	}

	result, err := PlaceAssetsInAccounts(portfolios, accounts)
	require.NoError(t, err)

	assert.True(t, result.Accounts[0].Holdings[domain.AssetBonds].Equal(decimal.NewFromInt(30000)))
	assert.True(t, result.Accounts[1].Holdings[domain.AssetBonds].Equal(decimal.NewFromInt(20000)))
}

func TestPlaceAssetsIgnoresNegativeBalances(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 10000, map[domain.AssetClassCode]float64{
			domain.AssetUSEquity: 1.0,
		}),
	}
	accounts := []domain.Account{
		{ID: "margin", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(-5000)},
		{ID: "cash", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(10000)},
	}

	result, err := PlaceAssetsInAccounts(portfolios, accounts)
	require.NoError(t, err)

	assert.Empty(t, result.Accounts[0].Holdings)
	assert.True(t, result.Accounts[1].Holdings[domain.AssetUSEquity].Equal(decimal.NewFromInt(10000)))
}

func TestPlaceAssetsValidation(t *testing.T) {
	portfolios := []domain.AllocationResult{
		portfolioWithWeights("g", 1000, map[domain.AssetClassCode]float64{domain.AssetCash: 1.0}),
	}

	_, err := PlaceAssetsInAccounts(portfolios, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one account")

	_, err = PlaceAssetsInAccounts(portfolios, []domain.Account{
		{Type: domain.AccountTaxable, Balance: decimal.NewFromInt(1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ID")

	_, err = PlaceAssetsInAccounts(portfolios, []domain.Account{
		{ID: "dup", Type: domain.AccountTaxable},
		{ID: "dup", Type: domain.AccountTaxable},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = PlaceAssetsInAccounts(portfolios, []domain.Account{
		{ID: "bad", Type: domain.AccountType(0)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestPlaceAssetsEmptyPortfolios(t *testing.T) {
	result, err := PlaceAssetsInAccounts(nil, accountSet())
	require.NoError(t, err)

	for _, account := range result.Accounts {
		assert.Empty(t, account.Holdings)
	}
	assert.Empty(t, result.Unplaced)
}
