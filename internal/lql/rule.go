// Package lql implements the LQL parser: free-form query text, checked
// against a schema.Schema, in to a typed, schema-validated RuleSet.
package lql

import (
	"sort"

	"github.com/oxhq/lqlroute/internal/schema"
	"github.com/oxhq/lqlroute/internal/value"
)

// Operator is one of the stable string tokens a FilterRule's comparison is
// encoded as, per spec.md §6 "Persistence".
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpRegex        Operator = "~"
	OpListIncludes Operator = "list_includes"
)

// Modifier is a flag attached to a FilterRule. `negate` is currently the
// only member.
type Modifier string

const ModNegate Modifier = "negate"

// Modifiers is the set of flags on a FilterRule.
type Modifiers []Modifier

// Has reports whether m is present in the set.
func (ms Modifiers) Has(m Modifier) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// FilterRule is a single predicate: path, operator, value, and modifiers.
type FilterRule struct {
	Path      string      `json:"path"`
	Operator  Operator    `json:"operator"`
	Value     value.Value `json:"value"`
	Modifiers Modifiers   `json:"modifiers,omitempty"`
}

// Negated reports whether this filter carries the negate modifier.
func (f FilterRule) Negated() bool { return f.Modifiers.Has(ModNegate) }

// ChartRule is the optional aggregation directive, at most one per
// RuleSet.
type ChartRule struct {
	Path      string           `json:"path"`
	ValueType schema.FieldType `json:"value_type"`
	// Aggregation and Period are opaque hints for the external chart
	// renderer; the core only ever copies them through.
	Aggregation string `json:"aggregation,omitempty"`
	Period      string `json:"period,omitempty"`
}

// RuleSet is the parser's output: an ordered, conjoined list of filters
// plus at most one chart directive.
type RuleSet struct {
	Search []FilterRule `json:"search"`
	Chart  []ChartRule  `json:"chart"`
}

// operatorRank gives each Operator a fixed position in the canonical sort,
// since the raw token strings don't sort into a useful order ("<=" sorts
// before ">=" lexicographically, which would split a range expansion's
// >= lo / <= hi pair). Unranked operators (there are none currently) fall
// back to len(operatorRank), sorting after every known operator.
var operatorRank = map[Operator]int{
	OpGreaterEqual: 0,
	OpLessEqual:    1,
	OpGreater:      2,
	OpLess:         3,
	OpEqual:        4,
	OpNotEqual:     5,
	OpRegex:        6,
	OpListIncludes: 7,
}

func rankOf(op Operator) int {
	if r, ok := operatorRank[op]; ok {
		return r
	}
	return len(operatorRank)
}

// sortSearch imposes the canonical deterministic order spec.md §4.2
// mandates: primarily by (operator, path, value), with negated filters
// sorted after non-negated ones for otherwise-identical triples. This
// makes parse(q) byte-identical to parse(shuffle_whitespace(q)).
//
// The operator component sorts by rankOf, not the raw token string, so
// that a range term's >= lo-bound filter always lands before its <=
// hi-bound filter.
func sortSearch(filters []FilterRule) {
	sort.SliceStable(filters, func(i, j int) bool {
		a, b := filters[i], filters[j]
		if ra, rb := rankOf(a.Operator), rankOf(b.Operator); ra != rb {
			return ra < rb
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		av, bv := a.Value.String(), b.Value.String()
		if av != bv {
			return av < bv
		}
		return !a.Negated() && b.Negated()
	})
}
