package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oxhq/lqlroute/internal/lql"
)

// Store wraps a *gorm.DB with the rule-persistence operations the CLI and
// any long-running routing service need.
type Store struct {
	db *gorm.DB
}

// New wraps an already-connected *gorm.DB (see Connect).
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func newID() string {
	return uuid.New().String()
}

// SaveRule persists rs under schemaRef, generating a new ID. The rule is
// created disabled-by-default-false, i.e. enabled, matching the parser's
// own zero-value expectations.
func (s *Store) SaveRule(schemaRef, name, query string, rs *lql.RuleSet) (*StoredRule, error) {
	searchJSON, err := json.Marshal(rs.Search)
	if err != nil {
		return nil, fmt.Errorf("store: marshal search filters: %w", err)
	}
	chartJSON, err := json.Marshal(rs.Chart)
	if err != nil {
		return nil, fmt.Errorf("store: marshal chart directive: %w", err)
	}

	rec := &StoredRule{
		ID:        newID(),
		SchemaRef: schemaRef,
		Name:      name,
		Query:     query,
		Search:    searchJSON,
		Chart:     chartJSON,
		Enabled:   true,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("store: create rule: %w", err)
	}
	return rec, nil
}

// RuleSet decodes the persisted Search/Chart JSON columns back into an
// lql.RuleSet.
func (r *StoredRule) RuleSet() (*lql.RuleSet, error) {
	rs := &lql.RuleSet{}
	if err := json.Unmarshal(r.Search, &rs.Search); err != nil {
		return nil, fmt.Errorf("store: unmarshal search filters: %w", err)
	}
	if len(r.Chart) > 0 {
		if err := json.Unmarshal(r.Chart, &rs.Chart); err != nil {
			return nil, fmt.Errorf("store: unmarshal chart directive: %w", err)
		}
	}
	return rs, nil
}

// Get fetches a rule by ID.
func (s *Store) Get(id string) (*StoredRule, error) {
	var rec StoredRule
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListBySchema returns every enabled rule registered against schemaRef, in
// creation order.
func (s *Store) ListBySchema(schemaRef string) ([]StoredRule, error) {
	var recs []StoredRule
	err := s.db.Where("schema_ref = ? AND enabled = ?", schemaRef, true).
		Order("created_at asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes a rule and its bindings/stats.
func (s *Store) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", id).Delete(&RouteBinding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("rule_id = ?", id).Delete(&IngestStats{}).Error; err != nil {
			return err
		}
		return tx.Delete(&StoredRule{}, "id = ?", id).Error
	})
}

// Bind registers sink as a destination for a matching rule's events.
func (s *Store) Bind(ruleID, sink string) (*RouteBinding, error) {
	b := &RouteBinding{ID: newID(), RuleID: ruleID, Sink: sink, Active: true}
	if err := s.db.Create(b).Error; err != nil {
		return nil, fmt.Errorf("store: create binding: %w", err)
	}
	return b, nil
}

// Bindings lists the active route bindings for a rule.
func (s *Store) Bindings(ruleID string) ([]RouteBinding, error) {
	var bindings []RouteBinding
	err := s.db.Where("rule_id = ? AND active = ?", ruleID, true).Find(&bindings).Error
	return bindings, err
}

// RecordEvaluation upserts the per-rule evaluation/match counters. It is
// cheap enough to call on every event: a single row per rule, updated in
// place.
func (s *Store) RecordEvaluation(ruleID string, matched bool) error {
	now := time.Now()
	var stats IngestStats
	err := s.db.Where("rule_id = ?", ruleID).First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		stats = IngestStats{ID: newID(), RuleID: ruleID}
	} else if err != nil {
		return err
	}

	stats.EvaluatedCount++
	stats.LastEvaluatedAt = &now
	if matched {
		stats.MatchedCount++
		stats.LastMatchedAt = &now
	}

	return s.db.Save(&stats).Error
}
