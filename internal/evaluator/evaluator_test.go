package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lqlroute/internal/event"
	"github.com/oxhq/lqlroute/internal/lql"
	"github.com/oxhq/lqlroute/internal/schema"
)

func mustParse(t *testing.T, query string, sch *schema.Schema) []lql.FilterRule {
	t.Helper()
	rs, err := lql.Parse(query, sch)
	require.NoError(t, err)
	return rs.Search
}

func TestMatches_ListIncludes(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.list_of_ints", Type: schema.ListOf(schema.TypeInteger)},
	})
	ev, err := event.FromMap(map[string]any{
		"metadata": map[string]any{"list_of_ints": []any{1.0, 2.0, 3.0}},
	})
	require.NoError(t, err)

	assert.True(t, Matches(ev, mustParse(t, "metadata.list_of_ints:2", sch)))
	assert.False(t, Matches(ev, mustParse(t, "metadata.list_of_ints:9", sch)))
}

func TestMatches_Regex(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.regex_string", Type: schema.TypeString},
	})
	ev, err := event.FromMap(map[string]any{
		"metadata": map[string]any{"regex_string": "count: 113"},
	})
	require.NoError(t, err)

	assert.True(t, Matches(ev, mustParse(t, `metadata.regex_string:~"count: \d+"`, sch)))
	assert.False(t, Matches(ev, mustParse(t, `metadata.regex_string:~"^nope$"`, sch)))
}

func TestMatches_CombinedRegexAnd(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.request.url", Type: schema.TypeString},
	})
	ev, err := event.FromMap(map[string]any{
		"event_message": "info count: 113",
		"metadata":      map[string]any{"request": map[string]any{"url": "/api/sources"}},
	})
	require.NoError(t, err)

	filters := mustParse(t, `"count: \d\d\d" metadata.request.url:~"sources$"`, sch)
	assert.True(t, Matches(ev, filters))

	ev2, err := event.FromMap(map[string]any{
		"event_message": "info count: 113",
		"metadata":      map[string]any{"request": map[string]any{"url": "/api/other"}},
	})
	require.NoError(t, err)
	assert.False(t, Matches(ev2, filters))
}

func TestMatches_MissingPathFailsPositivePredicate(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	})
	ev, err := event.FromMap(map[string]any{"metadata": map[string]any{}})
	require.NoError(t, err)

	assert.False(t, Matches(ev, mustParse(t, "metadata.n:5", sch)))
}

func TestMatches_NegatedMissingPathSucceeds(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	})
	ev, err := event.FromMap(map[string]any{"metadata": map[string]any{}})
	require.NoError(t, err)

	assert.True(t, Matches(ev, mustParse(t, "-metadata.n:5", sch)))
}

func TestMatches_ListOfMapsFanOutIsExistential(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.users.id", Type: schema.TypeInteger},
	})
	ev, err := event.FromMap(map[string]any{
		"metadata": map[string]any{
			"users": []any{
				map[string]any{"id": 1.0},
				map[string]any{"id": 2.0},
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, Matches(ev, mustParse(t, "metadata.users.id:2", sch)))
	assert.False(t, Matches(ev, mustParse(t, "metadata.users.id:9", sch)))
}

func TestMatches_NumericCrossTypeWidening(t *testing.T) {
	sch := schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.latency", Type: schema.TypeFloat},
	})
	ev, err := event.FromMap(map[string]any{
		"metadata": map[string]any{"latency": 42.0},
	})
	require.NoError(t, err)

	assert.True(t, Matches(ev, mustParse(t, "metadata.latency:>=40", sch)))
	assert.False(t, Matches(ev, mustParse(t, "metadata.latency:>50", sch)))
}

func TestMatches_TimestampComparison(t *testing.T) {
	sch := schema.New()
	ev, err := event.FromMap(map[string]any{
		"event_message": "boot",
		"timestamp":     "2024-06-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.True(t, ev.Timestamp.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	assert.True(t, Matches(ev, mustParse(t, "timestamp:2024-01-01..2024-12-31", sch)))
	assert.False(t, Matches(ev, mustParse(t, "timestamp:2025-01-01..2025-12-31", sch)))
}

func TestMatches_EmptyRuleSetMatchesEverything(t *testing.T) {
	ev, err := event.FromMap(map[string]any{"event_message": "anything"})
	require.NoError(t, err)
	assert.True(t, Matches(ev, nil))
}

func TestRegexCache_ReusesCompiledPattern(t *testing.T) {
	c := newRegexCache(2)
	re1, err := c.compile("^a+$")
	require.NoError(t, err)
	re2, err := c.compile("^a+$")
	require.NoError(t, err)
	assert.Same(t, re1, re2)
}

func TestRegexCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newRegexCache(2)
	_, _ = c.compile("a")
	_, _ = c.compile("b")
	_, _ = c.compile("a") // touch a, b is now LRU
	_, _ = c.compile("c") // evicts b

	_, ok := c.entries["b"]
	assert.False(t, ok)
	_, ok = c.entries["a"]
	assert.True(t, ok)
	_, ok = c.entries["c"]
	assert.True(t, ok)
}
