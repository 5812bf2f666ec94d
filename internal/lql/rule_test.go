package lql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lqlroute/internal/value"
)

func TestRuleSet_JSONRoundTrip(t *testing.T) {
	rs := RuleSet{
		Search: []FilterRule{
			{Path: "event_message", Operator: OpRegex, Value: value.Str("boot")},
			{Path: "metadata.n", Operator: OpGreaterEqual, Value: value.Int(5), Modifiers: Modifiers{ModNegate}},
		},
		Chart: []ChartRule{{Path: "metadata.latency", ValueType: "float"}},
	}

	raw, err := json.Marshal(rs)
	require.NoError(t, err)

	var out RuleSet
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, rs, out)
}

func TestFilterRule_Negated(t *testing.T) {
	f := FilterRule{Modifiers: Modifiers{ModNegate}}
	assert.True(t, f.Negated())
	f2 := FilterRule{}
	assert.False(t, f2.Negated())
}

func TestSortSearch_NegatedAfterNonNegated(t *testing.T) {
	filters := []FilterRule{
		{Path: "a", Operator: OpEqual, Value: value.Str("x"), Modifiers: Modifiers{ModNegate}},
		{Path: "a", Operator: OpEqual, Value: value.Str("x")},
	}
	sortSearch(filters)
	assert.False(t, filters[0].Negated())
	assert.True(t, filters[1].Negated())
}

func TestSortSearch_RangeExpansionKeepsGreaterEqualBeforeLessEqual(t *testing.T) {
	filters := []FilterRule{
		{Path: "metadata.n", Operator: OpGreaterEqual, Value: value.Int(50)},
		{Path: "metadata.n", Operator: OpLessEqual, Value: value.Int(200)},
	}
	sortSearch(filters)
	assert.Equal(t, OpGreaterEqual, filters[0].Operator)
	assert.Equal(t, OpLessEqual, filters[1].Operator)

	// The raw token strings sort the other way ("<=" < ">=" lexically), so
	// this guards against regressing sortSearch back to a naive string
	// comparison on Operator.
	reversed := []FilterRule{
		{Path: "metadata.n", Operator: OpLessEqual, Value: value.Int(200)},
		{Path: "metadata.n", Operator: OpGreaterEqual, Value: value.Int(50)},
	}
	sortSearch(reversed)
	assert.Equal(t, OpGreaterEqual, reversed[0].Operator)
	assert.Equal(t, OpLessEqual, reversed[1].Operator)
}
