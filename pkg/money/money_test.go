package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndFromString(t *testing.T) {
	m := New(1234.56)
	assert.Equal(t, "1234.56", m.String())

	parsed, err := FromString("99.999")
	require.NoError(t, err)
	assert.Equal(t, "100.00", parsed.Round().String())

	_, err = FromString("not money")
	require.Error(t, err)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.567", "1234.57"},
		{"1234.564", "1234.56"},
		{"-12.345", "-12.35"},
		{"0.004", "0.00"},
	}
	for _, tc := range tests {
		m, err := FromString(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.Round().String(), "input %s", tc.in)
	}
}

func TestAnnualMonthlyConversion(t *testing.T) {
	monthly := New(1500)
	assert.Equal(t, "18000.00", monthly.Annual().String())
	assert.Equal(t, "1500.00", monthly.Annual().Monthly().String())
}

func TestArithmetic(t *testing.T) {
	a := New(100.50)
	b := New(49.50)

	assert.Equal(t, "150.00", a.Add(b).String())
	assert.Equal(t, "51.00", a.Sub(b).String())
	assert.Equal(t, "201.00", a.Mul(decimal.NewFromInt(2)).String())
	assert.Equal(t, "50.25", a.Div(decimal.NewFromInt(2)).String())
	assert.Equal(t, "40.20", a.MulFloat(0.4).String())
}

func TestComparisons(t *testing.T) {
	small := New(10)
	large := New(20)

	assert.True(t, large.GreaterThan(small))
	assert.True(t, large.GreaterThanOrEqual(large))
	assert.True(t, small.LessThan(large))
	assert.True(t, small.LessThanOrEqual(small))
	assert.True(t, small.Equal(New(10)))
	assert.False(t, small.Equal(large))

	assert.True(t, Min(small, large).Equal(small))
	assert.True(t, Max(small, large).Equal(large))
}

func TestPredicates(t *testing.T) {
	assert.True(t, Zero().IsZero())
	assert.True(t, New(1).IsPositive())
	assert.True(t, New(-1).IsNegative())
	assert.False(t, Zero().IsPositive())
	assert.False(t, Zero().IsNegative())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1234.56", New(1234.56).Format())
	assert.Equal(t, "$0.00", Zero().Format())
	assert.Equal(t, "$-5.00", New(-5).Format())
}
