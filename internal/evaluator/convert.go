package evaluator

import (
	"math"
	"time"

	"github.com/oxhq/lqlroute/internal/value"
)

// toValue converts a raw leaf pulled out of an event document — a
// JSON-decoded scalar, a nested list, or the Go-native time.Time carried by
// the event's own timestamp field — into a value.Value. It returns false
// for anything it can't make sense of (nil, an object that wasn't fully
// indexed, an unknown Go type), which the caller treats as "predicate
// fails" rather than an error.
func toValue(raw any) (value.Value, bool) {
	switch v := raw.(type) {
	case string:
		return value.Str(v), true
	case bool:
		return value.Bool(v), true
	case int:
		return value.Int(int64(v)), true
	case int32:
		return value.Int(int64(v)), true
	case int64:
		return value.Int(v), true
	case float32:
		return toValue(float64(v))
	case float64:
		if !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) {
			return value.Int(int64(v)), true
		}
		return value.Float(v), true
	case time.Time:
		return value.DateTime(v), true
	case []any:
		list := make([]value.Value, 0, len(v))
		for _, e := range v {
			ev, ok := toValue(e)
			if !ok {
				continue
			}
			list = append(list, ev)
		}
		return value.List(list), true
	default:
		return value.Value{}, false
	}
}

// stringForm renders raw the way the `~` operator matches against it: the
// raw string itself when raw already is one, otherwise the natural string
// form of whatever scalar toValue makes of it.
func stringForm(raw any) (string, bool) {
	if s, ok := raw.(string); ok {
		return s, true
	}
	v, ok := toValue(raw)
	if !ok || v.Kind == value.KindList {
		return "", false
	}
	return v.String(), true
}
