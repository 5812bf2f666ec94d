// Package schema is the in-memory representation of a log table's known
// field paths and their semantic types. The parser consults a Schema to
// validate and coerce every `path:value` term it encounters.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType is the semantic type assigned to a schema path.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeBoolean  FieldType = "boolean"
	TypeDateTime FieldType = "datetime"
	TypeDate     FieldType = "date"
	TypeObject   FieldType = "object"
	// TypeList wraps an element type; ElementOf(typ) recovers it.
	TypeList FieldType = "list"
)

// ListOf returns the FieldType for a list whose elements carry elem.
func ListOf(elem FieldType) FieldType {
	return FieldType("list<" + string(elem) + ">")
}

// ElementOf returns the scalar element type of a list<T> FieldType, and
// whether typ was in fact a list type.
func ElementOf(typ FieldType) (FieldType, bool) {
	s := string(typ)
	if !strings.HasPrefix(s, "list<") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	return FieldType(s[len("list<") : len(s)-1]), true
}

// IsList reports whether typ is a list<T> type.
func IsList(typ FieldType) bool {
	_, ok := ElementOf(typ)
	return ok
}

// EventMessagePath and TimestampPath are the two system paths present in
// every schema regardless of the declared metadata tree.
const (
	EventMessagePath = "event_message"
	TimestampPath    = "timestamp"
)

// Schema is a finite, immutable set of fully-qualified field paths and
// their semantic types.
type Schema struct {
	fields map[string]FieldType
}

// New builds an empty schema, pre-seeded with the two system paths.
func New() *Schema {
	s := &Schema{fields: make(map[string]FieldType)}
	s.fields[EventMessagePath] = TypeString
	s.fields[TimestampPath] = TypeDateTime
	return s
}

// Set declares path with the given type. Intended for programmatic
// construction and for the descriptor/sample-tree builders below.
func (s *Schema) Set(path string, typ FieldType) {
	s.fields[path] = typ
}

// Resolve returns the declared type of path and whether it is known.
func (s *Schema) Resolve(path string) (FieldType, bool) {
	typ, ok := s.fields[path]
	return typ, ok
}

// IsNumeric reports whether path resolves to integer or float.
func (s *Schema) IsNumeric(path string) bool {
	typ, ok := s.fields[path]
	return ok && (typ == TypeInteger || typ == TypeFloat)
}

// IsTemporal reports whether path resolves to date or datetime.
func (s *Schema) IsTemporal(path string) bool {
	typ, ok := s.fields[path]
	return ok && (typ == TypeDate || typ == TypeDateTime)
}

// IsString reports whether path resolves to string.
func (s *Schema) IsString(path string) bool {
	typ, ok := s.fields[path]
	return ok && typ == TypeString
}

// IsBoolean reports whether path resolves to boolean.
func (s *Schema) IsBoolean(path string) bool {
	typ, ok := s.fields[path]
	return ok && typ == TypeBoolean
}

// IsListPath reports whether path resolves to a list<T> type.
func (s *Schema) IsListPath(path string) bool {
	typ, ok := s.fields[path]
	return ok && IsList(typ)
}

// Paths enumerates all known paths in sorted order, used for error
// messages that suggest near-matches for a typo'd path.
func (s *Schema) Paths() []string {
	out := make([]string, 0, len(s.fields))
	for p := range s.fields {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FromSamples builds a Schema by walking a nested map of sample values,
// inferring a FieldType for each leaf the way a schema builder would from
// one representative log event: whole numbers become integer, any number
// with a decimal point becomes float, "true"/"false" booleans become
// boolean, everything else is string; a list is typed by its first
// element. prefix is typically "metadata".
func FromSamples(prefix string, samples map[string]any) *Schema {
	s := New()
	walkSamples(s, prefix, samples)
	return s
}

func walkSamples(s *Schema, prefix string, node map[string]any) {
	for key, val := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := val.(type) {
		case map[string]any:
			s.Set(path, TypeObject)
			walkSamples(s, path, v)
		case []any:
			if len(v) == 0 {
				s.Set(path, ListOf(TypeString))
				continue
			}
			s.Set(path, ListOf(inferScalar(v[0])))
		default:
			s.Set(path, inferScalar(val))
		}
	}
}

func inferScalar(v any) FieldType {
	switch t := v.(type) {
	case bool:
		return TypeBoolean
	case int, int32, int64:
		return TypeInteger
	case float32:
		return inferFromFloatString(fmt.Sprintf("%v", t))
	case float64:
		return inferFromFloatString(fmt.Sprintf("%v", t))
	case string:
		return TypeString
	default:
		return TypeString
	}
}

// inferFromFloatString distinguishes "whole-number sample" from
// "sample containing a decimal point" per the inference rule, since Go's
// JSON decoder hands every bare number back as float64 regardless of
// whether the source literal had a fractional part.
func inferFromFloatString(s string) FieldType {
	if strings.Contains(s, ".") {
		return TypeFloat
	}
	return TypeInteger
}

// Descriptor is an explicit path->type declaration, for schemas built
// from a config/DB source rather than inferred from samples.
type Descriptor struct {
	Path string
	Type FieldType
}

// FromDescriptors builds a Schema from explicit path/type pairs.
func FromDescriptors(descs []Descriptor) *Schema {
	s := New()
	for _, d := range descs {
		s.Set(d.Path, d.Type)
	}
	return s
}
