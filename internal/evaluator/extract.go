package evaluator

import (
	"strings"

	"github.com/oxhq/lqlroute/internal/event"
	"github.com/oxhq/lqlroute/internal/schema"
)

// extraction is the result of resolving a field path against an event. A
// path can fan out across a list of nested maps, so extraction carries
// every matching leaf rather than a single value; missing is true only
// when no branch reached a leaf at all.
type extraction struct {
	missing bool
	leaves  []any
}

// extractPath resolves path (as produced by the parser: "event_message",
// "timestamp", or "metadata.a.b.c") against ev. An absent intermediate key
// anywhere along the path yields a missing extraction; a list encountered
// mid-path fans out element-wise and the extraction holds every leaf that
// resolved (spec.md: "the predicate holds if any element satisfies it").
func extractPath(ev event.Event, path string) extraction {
	switch path {
	case schema.EventMessagePath:
		return extraction{leaves: []any{ev.EventMessage}}
	case schema.TimestampPath:
		return extraction{leaves: []any{ev.Timestamp}}
	}

	segs := strings.Split(path, ".")
	if len(segs) < 2 || segs[0] != "metadata" {
		return extraction{missing: true}
	}
	return walk(ev.Metadata, segs[1:])
}

func walk(node any, segs []string) extraction {
	if len(segs) == 0 {
		return extraction{leaves: []any{node}}
	}

	switch n := node.(type) {
	case map[string]any:
		child, ok := n[segs[0]]
		if !ok {
			return extraction{missing: true}
		}
		return walk(child, segs[1:])
	case []any:
		var leaves []any
		found := false
		for _, el := range n {
			sub := walk(el, segs)
			if sub.missing {
				continue
			}
			found = true
			leaves = append(leaves, sub.leaves...)
		}
		if !found {
			return extraction{missing: true}
		}
		return extraction{leaves: leaves}
	default:
		return extraction{missing: true}
	}
}
