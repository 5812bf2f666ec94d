// Package value implements the tagged scalar/list representation LQL uses
// for both schema-resolved literals and values extracted from events.
package value

import (
	"fmt"
	"time"
)

// Kind identifies the dynamic type carried by a Value.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBoolean  Kind = "boolean"
	KindDate     Kind = "date"
	KindDateTime Kind = "datetime"
	KindList     Kind = "list"
)

// dateLayout and dateTimeLayout are the two ISO-8601 forms LQL accepts:
// a bare date (YYYY-MM-DD) and a UTC datetime (YYYY-MM-DDTHH:MM:SSZ).
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

// Value is a tagged scalar or a homogeneous list of scalars. Only one of
// the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	Str  string
	Int  int64
	Flt  float64
	Bool bool
	Time time.Time // used for both Date and DateTime

	List []Value
}

func Str(s string) Value    { return Value{Kind: KindString, Str: s} }
func Int(i int64) Value     { return Value{Kind: KindInteger, Int: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, Flt: f} }
func Bool(b bool) Value     { return Value{Kind: KindBoolean, Bool: b} }

func Date(t time.Time) Value {
	return Value{Kind: KindDate, Time: t}
}

func DateTime(t time.Time) Value {
	return Value{Kind: KindDateTime, Time: t}
}

func List(vs []Value) Value {
	return Value{Kind: KindList, List: vs}
}

// IsNumeric reports whether v carries an integer or float.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// IsTemporal reports whether v carries a date or datetime.
func (v Value) IsTemporal() bool {
	return v.Kind == KindDate || v.Kind == KindDateTime
}

// AsFloat widens an integer, float, date, or datetime to a float64 for
// cross-type numeric/temporal comparison. Dates and datetimes widen to
// Unix seconds. Returns false if v cannot be widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	case KindDate, KindDateTime:
		return float64(v.Time.Unix()), true
	default:
		return 0, false
	}
}

// String renders v in the candidate form used by the `~` operator and by
// error messages: the natural string form of whatever scalar it holds.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%v", v.Flt)
	case KindBoolean:
		return fmt.Sprintf("%v", v.Bool)
	case KindDate:
		return v.Time.Format(dateLayout)
	case KindDateTime:
		return v.Time.Format(dateTimeLayout)
	case KindList:
		out := "["
		for i, e := range v.List {
			if i > 0 {
				out += ","
			}
			out += e.String()
		}
		return out + "]"
	default:
		return ""
	}
}

// Equal implements the `=` operator's deep-equality rule: exact,
// case-sensitive string comparison, and numeric/temporal types compared
// after widening to float so an int path and a float literal still match.
func Equal(a, b Value) bool {
	switch {
	case a.Kind == KindString && b.Kind == KindString:
		return a.Str == b.Str
	case a.Kind == KindBoolean && b.Kind == KindBoolean:
		return a.Bool == b.Bool
	case (a.IsNumeric() || a.IsTemporal()) && (b.IsNumeric() || b.IsTemporal()):
		af, aok := a.AsFloat()
		bf, bok := b.AsFloat()
		return aok && bok && af == bf
	case a.Kind == KindList && b.Kind == KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements the ordered comparison operators (<, <=, >, >=).
// ok is false when a and b are not both numeric/temporal — the evaluator
// treats that as "predicate fails" rather than an error (spec: total
// evaluation, never throws).
func Compare(a, b Value) (cmp int, ok bool) {
	af, aok := a.AsFloat()
	bf, bok := b.AsFloat()
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}
