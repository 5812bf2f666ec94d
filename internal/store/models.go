// Package store persists parsed rules and their routing destinations so a
// long-running evaluator doesn't need to re-parse LQL on every restart.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// StoredRule is a parsed RuleSet persisted alongside the source text it was
// parsed from. Search and Chart hold the JSON encoding of
// []lql.FilterRule and []lql.ChartRule respectively, kept opaque at the
// storage layer the way Stage.TargetQuery keeps a full query object opaque.
type StoredRule struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SchemaRef string `gorm:"type:varchar(100);index;not null"`

	Name  string `gorm:"type:varchar(255);index"`
	Query string `gorm:"type:text;not null"` // original LQL source

	Search datatypes.JSON `gorm:"type:jsonb;not null"`
	Chart  datatypes.JSON `gorm:"type:jsonb"`

	Enabled bool `gorm:"default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Bindings []RouteBinding `gorm:"foreignKey:RuleID"`
}

// RouteBinding names a destination a matching event is forwarded to. A
// rule with no bindings is evaluated but routes nowhere (useful for
// dry-run / chart-only rules).
type RouteBinding struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	RuleID string `gorm:"type:varchar(36);index;not null"`

	Sink   string `gorm:"type:varchar(255);not null"` // opaque destination name
	Active bool   `gorm:"default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IngestStats tracks cumulative per-rule evaluation and match counters
// (they only ever increase), the way Session tracked per-session
// stage/apply counts.
type IngestStats struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	RuleID string `gorm:"type:varchar(36);uniqueIndex;not null"`

	EvaluatedCount int64 `gorm:"default:0"`
	MatchedCount   int64 `gorm:"default:0"`

	LastEvaluatedAt *time.Time
	LastMatchedAt   *time.Time
}

func (StoredRule) TableName() string   { return "rules" }
func (RouteBinding) TableName() string { return "route_bindings" }
func (IngestStats) TableName() string  { return "ingest_stats" }
