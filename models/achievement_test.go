package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperator(t *testing.T) {
	cases := []struct {
		in   string
		want Operator
	}{
		{">=", OpGTE},
		{">", OpGT},
		{"=", OpEQ},
		{"<", OpLT},
	}
	for _, tc := range cases {
		op, err := ParseOperator(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, op)
		assert.Equal(t, tc.in, op.String())
	}

	_, err := ParseOperator("!=")
	assert.Error(t, err)
	_, err = ParseOperator("")
	assert.Error(t, err)
}

func TestOperatorHolds(t *testing.T) {
	cases := []struct {
		op     Operator
		value  float64
		target float64
		want   bool
	}{
		{OpGTE, 5, 5, true},
		{OpGTE, 4, 5, false},
		{OpGT, 5, 5, false},
		{OpGT, 6, 5, true},
		{OpEQ, 5, 5, true},
		{OpEQ, 5.5, 5, false},
		{OpLT, 4, 5, true},
		{OpLT, 5, 5, false},
		{OpInvalid, 5, 5, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.op.Holds(tc.value, tc.target),
			"%v %s %v", tc.value, tc.op, tc.target)
	}
}

func TestAchievementRuleJSON(t *testing.T) {
	var rule AchievementRule
	err := json.Unmarshal([]byte(`{
		"id": "food_saver_1",
		"stat_key": "savedCount",
		"operator": ">=",
		"target_value": 5
	}`), &rule)
	require.NoError(t, err)
	assert.Equal(t, OpGTE, rule.Op)
	assert.Equal(t, 5.0, rule.Target)

	// Unknown operators fail at decode time instead of silently never firing.
	err = json.Unmarshal([]byte(`{"id":"x","stat_key":"exp","operator":"~="}`), &rule)
	assert.Error(t, err)

	data, err := json.Marshal(AchievementRule{ID: "x", StatKey: "exp", Op: OpGT, Target: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operator":">"`)
}

func TestBuiltinRegistryIsValid(t *testing.T) {
	seen := map[string]bool{}
	for _, rule := range AchievementRules {
		assert.NotEmpty(t, rule.ID)
		assert.NotEmpty(t, rule.StatKey)
		assert.NotEqual(t, OpInvalid, rule.Op)
		assert.False(t, seen[rule.ID], "duplicate id %s", rule.ID)
		seen[rule.ID] = true
	}
}

func TestStatsValue(t *testing.T) {
	stats := Stats{Level: 3, Exp: 120, SavedCount: 7, SavedWeight: 2.8, NightOwlActions: 1}

	assert.Equal(t, 3.0, stats.Value("level"))
	assert.Equal(t, 120.0, stats.Value("exp"))
	assert.Equal(t, 7.0, stats.Value("savedCount"))
	assert.Equal(t, 2.8, stats.Value("savedWeight"))
	assert.Equal(t, 1.0, stats.Value("nightOwlActions"))
	assert.Equal(t, 0.0, stats.Value("noSuchCounter"))
}
