package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGoalPriorityRankOrdering(t *testing.T) {
	assert.Less(t, PriorityEssential.Rank(), PriorityImportant.Rank())
	assert.Less(t, PriorityImportant.Rank(), PriorityAspirational.Rank())
}

func TestGoalPriorityRiskAdjustment(t *testing.T) {
	assert.Equal(t, -0.10, PriorityEssential.RiskAdjustment())
	assert.Equal(t, 0.0, PriorityImportant.RiskAdjustment())
	assert.Equal(t, 0.10, PriorityAspirational.RiskAdjustment())
	assert.Equal(t, 0.0, GoalPriority(0).RiskAdjustment())
}

func TestParseGoalPriority(t *testing.T) {
	for s, want := range map[string]GoalPriority{
		"essential":    PriorityEssential,
		"important":    PriorityImportant,
		"aspirational": PriorityAspirational,
	} {
		got, err := ParseGoalPriority(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
		assert.True(t, got.Valid())
	}

	_, err := ParseGoalPriority("critical")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical")

	assert.False(t, GoalPriority(0).Valid())
	assert.False(t, GoalPriority(4).Valid())
}

func TestGoalPriorityYAMLRoundTrip(t *testing.T) {
	var parsed struct {
		Priority GoalPriority `yaml:"priority"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("priority: aspirational\n"), &parsed))
	assert.Equal(t, PriorityAspirational, parsed.Priority)

	out, err := yaml.Marshal(parsed)
	require.NoError(t, err)
	assert.Contains(t, string(out), "aspirational")

	require.Error(t, yaml.Unmarshal([]byte("priority: urgent\n"), &parsed))
}

func TestGoalPriorityJSON(t *testing.T) {
	out, err := json.Marshal(PriorityEssential)
	require.NoError(t, err)
	assert.Equal(t, `"essential"`, string(out))

	_, err = json.Marshal(GoalPriority(9))
	require.Error(t, err)
}
