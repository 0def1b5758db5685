package domain

import "fmt"

// AssetClassCode identifies an investable asset class sleeve.
type AssetClassCode string

const (
	AssetUSEquity   AssetClassCode = "us_equity"   // Domestic large-cap equity
	AssetIntlEquity AssetClassCode = "intl_equity" // International developed equity
	AssetEMEquity   AssetClassCode = "em_equity"   // Emerging markets equity
	AssetBonds      AssetClassCode = "bonds"       // Investment-grade fixed income
	AssetTIPS       AssetClassCode = "tips"        // Inflation-protected securities
	AssetCash       AssetClassCode = "cash"        // Cash and equivalents
)

// AllAssetClasses lists every known code in stable display order.
var AllAssetClasses = []AssetClassCode{
	AssetUSEquity, AssetIntlEquity, AssetEMEquity,
	AssetBonds, AssetTIPS, AssetCash,
}

// AssetClass holds the capital market assumptions for one asset class.
type AssetClass struct {
	Code           AssetClassCode `yaml:"code" json:"code"`
	Name           string         `yaml:"name" json:"name"`
	ExpectedReturn float64        `yaml:"expected_return" json:"expected_return"` // Annualized, e.g. 0.08
	Volatility     float64        `yaml:"volatility" json:"volatility"`           // Annualized std dev
	TaxEfficiency  float64        `yaml:"tax_efficiency" json:"tax_efficiency"`   // 0-1, 1 = fully tax-exempt growth
}

// CMATable is a capital market assumptions lookup, keyed by asset class code.
// It is passed explicitly into every computation so tests can substitute
// alternative assumption sets without cross-test interference.
type CMATable map[AssetClassCode]AssetClass

// DefaultCMATable returns the reference capital market assumptions.
// Callers may override individual classes via configuration.
func DefaultCMATable() CMATable {
	return CMATable{
		AssetUSEquity:   {Code: AssetUSEquity, Name: "US Equity", ExpectedReturn: 0.080, Volatility: 0.16, TaxEfficiency: 0.85},
		AssetIntlEquity: {Code: AssetIntlEquity, Name: "International Developed Equity", ExpectedReturn: 0.075, Volatility: 0.17, TaxEfficiency: 0.80},
		AssetEMEquity:   {Code: AssetEMEquity, Name: "Emerging Markets Equity", ExpectedReturn: 0.090, Volatility: 0.22, TaxEfficiency: 0.75},
		AssetBonds:      {Code: AssetBonds, Name: "Investment-Grade Bonds", ExpectedReturn: 0.040, Volatility: 0.05, TaxEfficiency: 0.40},
		AssetTIPS:       {Code: AssetTIPS, Name: "Inflation-Protected Bonds", ExpectedReturn: 0.035, Volatility: 0.06, TaxEfficiency: 0.45},
		AssetCash:       {Code: AssetCash, Name: "Cash", ExpectedReturn: 0.025, Volatility: 0.01, TaxEfficiency: 0.60},
	}
}

// Lookup returns the assumptions for a code, or an error naming the missing class.
func (t CMATable) Lookup(code AssetClassCode) (AssetClass, error) {
	ac, ok := t[code]
	if !ok {
		return AssetClass{}, fmt.Errorf("asset class %q not present in CMA table", code)
	}
	return ac, nil
}

// PortfolioReturn computes the weight-dotted expected return of a weight
// vector against the table. Correlations are intentionally ignored here.
func (t CMATable) PortfolioReturn(weights map[AssetClassCode]float64) float64 {
	var r float64
	for code, w := range weights {
		if ac, ok := t[code]; ok {
			r += w * ac.ExpectedReturn
		}
	}
	return r
}

// PortfolioRisk computes the weight-dotted volatility of a weight vector
// against the table (simple weighted sum, no correlation matrix).
func (t CMATable) PortfolioRisk(weights map[AssetClassCode]float64) float64 {
	var v float64
	for code, w := range weights {
		if ac, ok := t[code]; ok {
			v += w * ac.Volatility
		}
	}
	return v
}
