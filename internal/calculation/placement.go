package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/goalplan/goalplan/internal/domain"
)

// Placement fill orders. Tax-deferred accounts absorb the least tax-efficient
// assets first (taxable bond income is the biggest drag); tax-exempt accounts
// absorb the highest-expected-growth assets first, since tax-free compounding
// benefits them most. Taxable accounts take whatever remains in stable
// display order.
var (
	TaxDeferredFillOrder = []domain.AssetClassCode{
		domain.AssetBonds, domain.AssetTIPS,
		domain.AssetIntlEquity, domain.AssetEMEquity,
		domain.AssetUSEquity, domain.AssetCash,
	}

	TaxExemptFillOrder = []domain.AssetClassCode{
		domain.AssetEMEquity, domain.AssetIntlEquity, domain.AssetUSEquity,
		domain.AssetTIPS, domain.AssetBonds, domain.AssetCash,
	}

	taxableFillOrder = domain.AllAssetClasses
)

// PlacementResult is the optimizer's proposal: per-account holdings plus any
// residual the accounts had no room for. The residual is reported explicitly
// rather than silently dropped.
type PlacementResult struct {
	Accounts []domain.AccountAllocation                `json:"accounts"`
	Unplaced map[domain.AssetClassCode]decimal.Decimal `json:"unplaced,omitempty"`
}

// placementState is the running state threaded through each placement pass:
// the pooled amount still wanted per asset class and the balance still free
// per account. Each pass consumes from both, so passes are unit-testable in
// isolation.
type placementState struct {
	pool     map[domain.AssetClassCode]decimal.Decimal
	balances map[string]decimal.Decimal
	holdings map[string]map[domain.AssetClassCode]decimal.Decimal
}

// PlaceAssetsInAccounts maps the union of per-goal target asset amounts onto
// real accounts: tax-deferred first, tax-exempt second, taxable last. This is
// a target-state placement, not a transaction plan; no rebalancing of
// existing positions is modeled.
func PlaceAssetsInAccounts(portfolios []domain.AllocationResult, accounts []domain.Account) (*PlacementResult, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("at least one account is required to place assets")
	}
	seen := make(map[string]struct{}, len(accounts))
	for i := range accounts {
		if accounts[i].ID == "" {
			return nil, fmt.Errorf("account %d has no ID", i)
		}
		if _, dup := seen[accounts[i].ID]; dup {
			return nil, fmt.Errorf("duplicate account ID %q", accounts[i].ID)
		}
		if !accounts[i].Type.Valid() {
			return nil, fmt.Errorf("account %q has invalid type", accounts[i].ID)
		}
		seen[accounts[i].ID] = struct{}{}
	}

	state := newPlacementState(portfolios, accounts)

	for _, pass := range []struct {
		accountType domain.AccountType
		order       []domain.AssetClassCode
	}{
		{domain.AccountTaxDeferred, TaxDeferredFillOrder},
		{domain.AccountTaxExempt, TaxExemptFillOrder},
		{domain.AccountTaxable, taxableFillOrder},
	} {
		for i := range accounts {
			if accounts[i].Type != pass.accountType {
				continue
			}
			state = fillAccount(state, accounts[i].ID, pass.order)
		}
	}

	return state.result(accounts), nil
}

func newPlacementState(portfolios []domain.AllocationResult, accounts []domain.Account) placementState {
	pool := make(map[domain.AssetClassCode]decimal.Decimal)
	for i := range portfolios {
		for code, amount := range portfolios[i].TargetAmounts() {
			if amount.IsPositive() {
				pool[code] = pool[code].Add(amount)
			}
		}
	}

	balances := make(map[string]decimal.Decimal, len(accounts))
	for i := range accounts {
		balances[accounts[i].ID] = decimal.Max(decimal.Zero, accounts[i].Balance)
	}

	return placementState{
		pool:     pool,
		balances: balances,
		holdings: make(map[string]map[domain.AssetClassCode]decimal.Decimal),
	}
}

// fillAccount greedily fills one account from the pool in the given asset
// order, never exceeding the account's remaining balance nor an asset's
// remaining pooled amount, and returns the advanced state.
func fillAccount(state placementState, accountID string, order []domain.AssetClassCode) placementState {
	for _, code := range order {
		available := state.pool[code]
		room := state.balances[accountID]
		if !available.IsPositive() || !room.IsPositive() {
			continue
		}

		placed := decimal.Min(available, room)
		state.pool[code] = available.Sub(placed)
		state.balances[accountID] = room.Sub(placed)

		if state.holdings[accountID] == nil {
			state.holdings[accountID] = make(map[domain.AssetClassCode]decimal.Decimal)
		}
		state.holdings[accountID][code] = state.holdings[accountID][code].Add(placed)
	}
	return state
}

// result assembles per-account allocations in the caller's account order and
// reports any residual the accounts could not absorb.
func (s placementState) result(accounts []domain.Account) *PlacementResult {
	allocations := make([]domain.AccountAllocation, 0, len(accounts))
	for i := range accounts {
		holdings := s.holdings[accounts[i].ID]
		if holdings == nil {
			holdings = map[domain.AssetClassCode]decimal.Decimal{}
		}
		allocations = append(allocations, domain.AccountAllocation{
			AccountID: accounts[i].ID,
			Holdings:  holdings,
		})
	}

	var unplaced map[domain.AssetClassCode]decimal.Decimal
	for code, amount := range s.pool {
		if amount.IsPositive() {
			if unplaced == nil {
				unplaced = make(map[domain.AssetClassCode]decimal.Decimal)
			}
			unplaced[code] = amount
		}
	}

	return &PlacementResult{Accounts: allocations, Unplaced: unplaced}
}
