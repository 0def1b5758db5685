package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies the tax treatment of a physical account.
type AccountType int

const (
	// AccountTaxable is a regular brokerage account: gains taxed annually or on sale.
	AccountTaxable AccountType = iota + 1
	// AccountTaxDeferred grows untaxed, withdrawals taxed as income (401k, traditional IRA).
	AccountTaxDeferred
	// AccountTaxExempt grows and withdraws tax-free (Roth IRA, Roth 401k).
	AccountTaxExempt
)

// Valid reports whether the account type is one of the known values.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTaxable, AccountTaxDeferred, AccountTaxExempt:
		return true
	}
	return false
}

func (t AccountType) String() string {
	switch t {
	case AccountTaxable:
		return "taxable"
	case AccountTaxDeferred:
		return "tax_deferred"
	case AccountTaxExempt:
		return "tax_exempt"
	default:
		return fmt.Sprintf("AccountType(%d)", int(t))
	}
}

// ParseAccountType converts a config string to an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "taxable":
		return AccountTaxable, nil
	case "tax_deferred":
		return AccountTaxDeferred, nil
	case "tax_exempt":
		return AccountTaxExempt, nil
	default:
		return 0, fmt.Errorf("unknown account type %q (want taxable, tax_deferred or tax_exempt)", s)
	}
}

// MarshalText implements encoding.TextMarshaler (used by both YAML and JSON).
func (t AccountType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid account type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by both YAML and JSON).
func (t *AccountType) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Account is a physical account owned by the household. The placement
// optimizer reads balances; it never mutates the account itself.
type Account struct {
	ID      string          `yaml:"id" json:"id"`
	Name    string          `yaml:"name" json:"name"`
	Type    AccountType     `yaml:"type" json:"type"`
	Balance decimal.Decimal `yaml:"balance" json:"balance"`
}
