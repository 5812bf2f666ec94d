// Package evaluator implements the routing evaluator: given a parsed rule
// and an event, it decides whether the event matches. Matching is total —
// it never errors, treating any type mismatch or missing field as simply
// "predicate fails" rather than surfacing that to the caller.
package evaluator

import (
	"github.com/oxhq/lqlroute/internal/event"
	"github.com/oxhq/lqlroute/internal/lql"
	"github.com/oxhq/lqlroute/internal/value"
)

// Matches reports whether ev satisfies every filter in filters (the
// filters are conjoined with AND, as produced by lql.Parse). An empty
// filter list matches everything.
func Matches(ev event.Event, filters []lql.FilterRule) bool {
	for _, f := range filters {
		if !EvalFilter(ev, f) {
			return false
		}
	}
	return true
}

// EvalFilter evaluates a single FilterRule against ev, applying negation.
// Exported for callers (such as the eval CLI) that need a per-filter
// pass/fail breakdown rather than just the overall AND of Matches.
func EvalFilter(ev event.Event, f lql.FilterRule) bool {
	ext := extractPath(ev, f.Path)
	raw := evalPredicate(ext, f)
	if f.Negated() {
		return !raw
	}
	return raw
}

// evalPredicate is the un-negated predicate: existential over every leaf a
// (possibly fanned-out) path extraction produced. A missing path never
// satisfies a predicate on its own — negation is applied by the caller,
// which is what lets "-missing.path:foo" succeed.
func evalPredicate(ext extraction, f lql.FilterRule) bool {
	if ext.missing {
		return false
	}
	for _, leaf := range ext.leaves {
		if evalLeaf(leaf, f) {
			return true
		}
	}
	return false
}

func evalLeaf(raw any, f lql.FilterRule) bool {
	switch f.Operator {
	case lql.OpRegex:
		return evalRegex(raw, f.Value)
	case lql.OpListIncludes:
		return evalListIncludes(raw, f.Value)
	case lql.OpEqual:
		lv, ok := toValue(raw)
		return ok && value.Equal(lv, f.Value)
	case lql.OpNotEqual:
		lv, ok := toValue(raw)
		return ok && !value.Equal(lv, f.Value)
	case lql.OpLess, lql.OpLessEqual, lql.OpGreater, lql.OpGreaterEqual:
		return evalOrdered(raw, f)
	default:
		return false
	}
}

func evalRegex(raw any, pattern value.Value) bool {
	s, ok := stringForm(raw)
	if !ok {
		return false
	}
	re, err := defaultRegexCache.compile(pattern.Str)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func evalListIncludes(raw any, needle value.Value) bool {
	lv, ok := toValue(raw)
	if !ok || lv.Kind != value.KindList {
		return false
	}
	for _, elem := range lv.List {
		if value.Equal(elem, needle) {
			return true
		}
	}
	return false
}

func evalOrdered(raw any, f lql.FilterRule) bool {
	lv, ok := toValue(raw)
	if !ok {
		return false
	}
	cmp, ok := value.Compare(lv, f.Value)
	if !ok {
		return false
	}
	switch f.Operator {
	case lql.OpLess:
		return cmp < 0
	case lql.OpLessEqual:
		return cmp <= 0
	case lql.OpGreater:
		return cmp > 0
	case lql.OpGreaterEqual:
		return cmp >= 0
	default:
		return false
	}
}
