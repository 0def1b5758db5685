package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseAccountType(t *testing.T) {
	for s, want := range map[string]AccountType{
		"taxable":      AccountTaxable,
		"tax_deferred": AccountTaxDeferred,
		"tax_exempt":   AccountTaxExempt,
	} {
		got, err := ParseAccountType(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
		assert.True(t, got.Valid())
	}

	_, err := ParseAccountType("hsa")
	require.Error(t, err)

	assert.False(t, AccountType(0).Valid())
	assert.Equal(t, "AccountType(0)", AccountType(0).String())
}

func TestAccountYAMLRoundTrip(t *testing.T) {
	input := `
id: roth-1
name: Roth IRA
type: tax_exempt
balance: "25000.50"
`
	var account Account
	require.NoError(t, yaml.Unmarshal([]byte(input), &account))

	assert.Equal(t, "roth-1", account.ID)
	assert.Equal(t, AccountTaxExempt, account.Type)
	assert.Equal(t, "25000.5", account.Balance.String())

	out, err := yaml.Marshal(account)
	require.NoError(t, err)
	assert.Contains(t, string(out), "tax_exempt")
}
