package value

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonValue is the canonical on-disk form of a Value: a type tag plus a
// type-appropriate payload, so a RuleSet survives round-trip to external
// storage without losing the distinction between, say, an integer 50 and
// a date whose string form happens to be "50".
type jsonValue struct {
	Kind Kind   `json:"kind"`
	Str  string `json:"str,omitempty"`
	Int  *int64 `json:"int,omitempty"`
	Flt  *float64 `json:"flt,omitempty"`
	Bool *bool  `json:"bool,omitempty"`
	Time *string `json:"time,omitempty"`
	List []Value `json:"list,omitempty"`
}

// MarshalJSON implements the canonical tagged encoding described in
// SPEC_FULL.md §10 (RuleSet persistence round-trip).
func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Kind: v.Kind}
	switch v.Kind {
	case KindString:
		jv.Str = v.Str
	case KindInteger:
		jv.Int = &v.Int
	case KindFloat:
		jv.Flt = &v.Flt
	case KindBoolean:
		jv.Bool = &v.Bool
	case KindDate:
		s := v.Time.Format(dateLayout)
		jv.Time = &s
	case KindDateTime:
		s := v.Time.Format(dateTimeLayout)
		jv.Time = &s
	case KindList:
		jv.List = v.List
	}
	return json.Marshal(jv)
}

// UnmarshalJSON implements the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch jv.Kind {
	case KindString:
		*v = Str(jv.Str)
	case KindInteger:
		if jv.Int == nil {
			return fmt.Errorf("value: missing int payload for kind integer")
		}
		*v = Int(*jv.Int)
	case KindFloat:
		if jv.Flt == nil {
			return fmt.Errorf("value: missing flt payload for kind float")
		}
		*v = Float(*jv.Flt)
	case KindBoolean:
		if jv.Bool == nil {
			return fmt.Errorf("value: missing bool payload for kind boolean")
		}
		*v = Bool(*jv.Bool)
	case KindDate:
		if jv.Time == nil {
			return fmt.Errorf("value: missing time payload for kind date")
		}
		t, err := time.Parse(dateLayout, *jv.Time)
		if err != nil {
			return err
		}
		*v = Date(t)
	case KindDateTime:
		if jv.Time == nil {
			return fmt.Errorf("value: missing time payload for kind datetime")
		}
		t, err := time.Parse(dateTimeLayout, *jv.Time)
		if err != nil {
			return err
		}
		*v = DateTime(t)
	case KindList:
		*v = List(jv.List)
	default:
		return fmt.Errorf("value: unknown kind %q", jv.Kind)
	}
	return nil
}
