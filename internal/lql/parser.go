package lql

import (
	"strconv"
	"strings"
	"time"

	"github.com/oxhq/lqlroute/internal/schema"
	"github.com/oxhq/lqlroute/internal/value"
)

// Parse converts a free-form LQL query into a typed, schema-validated
// RuleSet. It is fail-fast: the first error encountered wins and no
// partial RuleSet is ever returned (spec.md §7).
func Parse(query string, sch *schema.Schema) (*RuleSet, error) {
	query = strings.TrimSpace(query)
	rs := &RuleSet{Search: []FilterRule{}, Chart: []ChartRule{}}
	if query == "" {
		return rs, nil
	}

	terms, err := splitTerms(query)
	if err != nil {
		return nil, err
	}

	for _, raw := range terms {
		if err := parseTerm(raw, sch, rs); err != nil {
			return nil, err
		}
	}

	sortSearch(rs.Search)
	return rs, nil
}

func parseTerm(raw string, sch *schema.Schema, rs *RuleSet) error {
	negated := false
	s := raw
	if strings.HasPrefix(s, "-") {
		negated = true
		s = s[1:]
	}
	if s == "" {
		return errTokenization("empty term after '-' in query")
	}

	if text, wasQuoted := dequote(s); wasQuoted {
		appendFilter(rs, FilterRule{Path: schema.EventMessagePath, Operator: OpRegex, Value: value.Str(text)}, negated)
		return nil
	}

	path, val, hasColon := splitPathValue(s)
	if !hasColon {
		appendFilter(rs, FilterRule{Path: schema.EventMessagePath, Operator: OpRegex, Value: value.Str(s)}, negated)
		return nil
	}

	if path == "chart" {
		return parseChart(val, sch, rs)
	}

	return parseFilterTerm(path, val, negated, sch, rs)
}

func appendFilter(rs *RuleSet, f FilterRule, negated bool) {
	if negated {
		f.Modifiers = Modifiers{ModNegate}
	}
	rs.Search = append(rs.Search, f)
}

func parseChart(pathRaw string, sch *schema.Schema, rs *RuleSet) error {
	typ, ok := sch.Resolve(pathRaw)
	if !ok {
		return errUnknownPath(pathRaw, sch.Suggest(pathRaw, 3))
	}
	if !sch.IsNumeric(pathRaw) {
		return errOperatorMismatch(pathRaw, "chart")
	}
	// At most one chart directive per query; later ones silently
	// overwrite, per spec.md §4.2 and §9 (source behavior preserved).
	rs.Chart = []ChartRule{{Path: pathRaw, ValueType: typ}}
	return nil
}

// comparisonPrefixes must be checked longest-prefix-first so "<=" isn't
// mistaken for "<" with value "=...".
var comparisonPrefixes = []struct {
	op     Operator
	prefix string
}{
	{OpLessEqual, "<="},
	{OpGreaterEqual, ">="},
	{OpLess, "<"},
	{OpGreater, ">"},
}

func parseFilterTerm(path, val string, negated bool, sch *schema.Schema, rs *RuleSet) error {
	// Regex term: path:~pattern
	if strings.HasPrefix(val, "~") {
		typ, ok := sch.Resolve(path)
		if !ok {
			return errUnknownPath(path, sch.Suggest(path, 3))
		}
		if !regexCompatible(typ) {
			return errOperatorMismatch(path, OpRegex)
		}
		pattern, _ := dequote(val[1:])
		appendFilter(rs, FilterRule{Path: path, Operator: OpRegex, Value: value.Str(pattern)}, negated)
		return nil
	}

	// Numeric/temporal comparisons: path:<v, path:<=v, path:>v, path:>=v
	for _, cp := range comparisonPrefixes {
		if !strings.HasPrefix(val, cp.prefix) {
			continue
		}
		typ, ok := sch.Resolve(path)
		if !ok {
			return errUnknownPath(path, sch.Suggest(path, 3))
		}
		if !(sch.IsNumeric(path) || sch.IsTemporal(path)) {
			return errOperatorMismatch(path, cp.op)
		}
		raw, _ := dequote(strings.TrimPrefix(val, cp.prefix))
		v, perr := coerceForPath(path, typ, raw)
		if perr != nil {
			return perr
		}
		appendFilter(rs, FilterRule{Path: path, Operator: cp.op, Value: v}, negated)
		return nil
	}

	// Range term: path:lo..hi
	if idx := strings.Index(val, ".."); idx >= 0 {
		typ, ok := sch.Resolve(path)
		if !ok {
			return errUnknownPath(path, sch.Suggest(path, 3))
		}
		if !(sch.IsNumeric(path) || sch.IsTemporal(path)) {
			return errOperatorMismatch(path, "..")
		}
		loRaw, _ := dequote(val[:idx])
		hiRaw, _ := dequote(val[idx+2:])
		loV, perr := coerceForPath(path, typ, loRaw)
		if perr != nil {
			return perr
		}
		hiV, perr := coerceForPath(path, typ, hiRaw)
		if perr != nil {
			return perr
		}
		cmp, ok := value.Compare(loV, hiV)
		if !ok || cmp > 0 {
			return errRange(path, val, "range lower bound must be <= upper bound")
		}
		appendFilter(rs, FilterRule{Path: path, Operator: OpGreaterEqual, Value: loV}, negated)
		appendFilter(rs, FilterRule{Path: path, Operator: OpLessEqual, Value: hiV}, negated)
		return nil
	}

	// Implicit equality: path:value. An empty unquoted value is reported
	// through the value-parse error form even when path is also
	// unknown, per spec.md §8 scenario 5. A quoted empty string ("") is
	// an ordinary value and goes through the normal coercion below.
	raw, wasQuoted := dequote(val)
	if raw == "" && !wasQuoted {
		return errValueParse(path, "")
	}

	typ, ok := sch.Resolve(path)
	if !ok {
		return errUnknownPath(path, sch.Suggest(path, 3))
	}

	if elem, isList := schema.ElementOf(typ); isList {
		v, okCoerce := coerceByType(elem, raw)
		if !okCoerce {
			if path == schema.TimestampPath {
				return errTimestamp(raw)
			}
			return errValueParse(path, raw)
		}
		appendFilter(rs, FilterRule{Path: path, Operator: OpListIncludes, Value: v}, negated)
		return nil
	}

	v, perr := coerceForPath(path, typ, raw)
	if perr != nil {
		return perr
	}
	appendFilter(rs, FilterRule{Path: path, Operator: OpEqual, Value: v}, negated)
	return nil
}

func regexCompatible(typ schema.FieldType) bool {
	if typ == schema.TypeString {
		return true
	}
	if elem, ok := schema.ElementOf(typ); ok {
		return elem == schema.TypeString
	}
	return false
}

// coerceForPath coerces raw to typ, routing failures through the
// dedicated timestamp error form for the system timestamp path and the
// generic path-qualified form for everything else.
func coerceForPath(path string, typ schema.FieldType, raw string) (value.Value, *ParseError) {
	v, ok := coerceByType(typ, raw)
	if ok {
		return v, nil
	}
	if path == schema.TimestampPath {
		return value.Value{}, errTimestamp(raw)
	}
	return value.Value{}, errValueParse(path, raw)
}

func coerceByType(typ schema.FieldType, raw string) (value.Value, bool) {
	switch typ {
	case schema.TypeString:
		return value.Str(raw), true
	case schema.TypeBoolean:
		switch raw {
		case "true":
			return value.Bool(true), true
		case "false":
			return value.Bool(false), true
		default:
			return value.Value{}, false
		}
	case schema.TypeInteger, schema.TypeFloat:
		return parseNumber(raw)
	case schema.TypeDate, schema.TypeDateTime:
		return parseTemporal(raw)
	default:
		if elem, ok := schema.ElementOf(typ); ok {
			return coerceByType(elem, raw)
		}
		return value.Value{}, false
	}
}

// parseNumber implements the literal grammar: optional leading '-',
// digits, optional '.' and fractional digits. A '.' forces float.
func parseNumber(raw string) (value.Value, bool) {
	if raw == "" {
		return value.Value{}, false
	}
	s := raw
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return value.Value{}, false
	}

	dotSeen := false
	for i, r := range s {
		if r == '.' {
			if dotSeen || i == 0 || i == len(s)-1 {
				return value.Value{}, false
			}
			dotSeen = true
			continue
		}
		if r < '0' || r > '9' {
			return value.Value{}, false
		}
	}

	if dotSeen {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.Value{}, false
		}
		return value.Float(f), true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return value.Value{}, false
	}
	return value.Int(n), true
}

const (
	isoDateLayout     = "2006-01-02"
	isoDateTimeLayout = "2006-01-02T15:04:05Z"
)

// parseTemporal accepts either form and keeps each bound's own type, per
// spec.md §4.2 ("A range between a date and a datetime is permitted;
// each bound retains its own type").
func parseTemporal(raw string) (value.Value, bool) {
	if len(raw) == len(isoDateLayout) {
		if t, err := time.Parse(isoDateLayout, raw); err == nil {
			return value.Date(t), true
		}
	}
	if t, err := time.Parse(isoDateTimeLayout, raw); err == nil {
		return value.DateTime(t), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return value.DateTime(t.UTC()), true
	}
	return value.Value{}, false
}
