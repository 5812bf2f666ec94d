package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lqlroute/internal/lql"
	"github.com/oxhq/lqlroute/internal/schema"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Connect("", false)
	require.NoError(t, err)
	return New(db)
}

func TestStoredRuleTableNames(t *testing.T) {
	assert.Equal(t, "rules", StoredRule{}.TableName())
	assert.Equal(t, "route_bindings", RouteBinding{}.TableName())
	assert.Equal(t, "ingest_stats", IngestStats{}.TableName())
}

func TestSaveAndGetRule(t *testing.T) {
	s := setupTestStore(t)
	sch := schema.New()
	rs, err := lql.Parse(`metadata.n:5 "boot"`, schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	}))
	require.NoError(t, err)
	_ = sch

	rec, err := s.SaveRule("app_logs", "boot errors", `metadata.n:5 "boot"`, rs)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Query, got.Query)

	decoded, err := got.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, rs.Search, decoded.Search)
}

func TestListBySchemaOnlyReturnsMatchingSchema(t *testing.T) {
	s := setupTestStore(t)
	rs, err := lql.Parse("metadata.n:5", schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	}))
	require.NoError(t, err)

	_, err = s.SaveRule("app_logs", "a", "metadata.n:5", rs)
	require.NoError(t, err)
	_, err = s.SaveRule("other_logs", "b", "metadata.n:5", rs)
	require.NoError(t, err)

	rules, err := s.ListBySchema("app_logs")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "a", rules[0].Name)
}

func TestBindAndRecordEvaluation(t *testing.T) {
	s := setupTestStore(t)
	rs, err := lql.Parse("metadata.n:5", schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	}))
	require.NoError(t, err)
	rec, err := s.SaveRule("app_logs", "a", "metadata.n:5", rs)
	require.NoError(t, err)

	_, err = s.Bind(rec.ID, "alerts-webhook")
	require.NoError(t, err)
	bindings, err := s.Bindings(rec.ID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, "alerts-webhook", bindings[0].Sink)

	require.NoError(t, s.RecordEvaluation(rec.ID, true))
	require.NoError(t, s.RecordEvaluation(rec.ID, false))

	var stats IngestStats
	require.NoError(t, s.db.Where("rule_id = ?", rec.ID).First(&stats).Error)
	assert.Equal(t, int64(2), stats.EvaluatedCount)
	assert.Equal(t, int64(1), stats.MatchedCount)
}

func TestDeleteCascadesBindingsAndStats(t *testing.T) {
	s := setupTestStore(t)
	rs, err := lql.Parse("metadata.n:5", schema.FromDescriptors([]schema.Descriptor{
		{Path: "metadata.n", Type: schema.TypeInteger},
	}))
	require.NoError(t, err)
	rec, err := s.SaveRule("app_logs", "a", "metadata.n:5", rs)
	require.NoError(t, err)
	_, err = s.Bind(rec.ID, "sink")
	require.NoError(t, err)
	require.NoError(t, s.RecordEvaluation(rec.ID, true))

	require.NoError(t, s.Delete(rec.ID))

	_, err = s.Get(rec.ID)
	assert.Error(t, err)
	bindings, err := s.Bindings(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, bindings)

	var statsCount int64
	require.NoError(t, s.db.Model(&IngestStats{}).Where("rule_id = ?", rec.ID).Count(&statsCount).Error)
	assert.Zero(t, statsCount)
}
