package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalFundingNeed(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want string
	}{
		{
			name: "standard gap",
			goal: Goal{TargetAmount: decimal.NewFromInt(500000), CurrentAmount: decimal.NewFromInt(50000)},
			want: "450000",
		},
		{
			name: "overfunded clamps to zero",
			goal: Goal{TargetAmount: decimal.NewFromInt(100000), CurrentAmount: decimal.NewFromInt(150000)},
			want: "0",
		},
		{
			name: "funding percentage scales the gap",
			goal: Goal{
				TargetAmount:      decimal.NewFromInt(200000),
				FundingPercentage: decimal.NewFromInt(25),
			},
			want: "50000",
		},
		{
			name: "unset percentage means full need",
			goal: Goal{TargetAmount: decimal.NewFromInt(80000)},
			want: "80000",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.goal.FundingNeed().String())
		})
	}
}

func TestGoalMonthsToGoal(t *testing.T) {
	goal := Goal{YearsToGoal: 12.5}
	assert.Equal(t, 150, goal.MonthsToGoal())

	goal.YearsToGoal = 0
	assert.Equal(t, 0, goal.MonthsToGoal())

	goal.YearsToGoal = -3
	assert.Equal(t, 0, goal.MonthsToGoal())
}
