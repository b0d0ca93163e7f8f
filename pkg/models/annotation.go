// Package models defines the framework-neutral data model shared by all
// extractors: annotations, test classes and methods, page objects, data
// providers, Gherkin outlines, and the terminal NeutralTestCase record.
package models

import (
	"sort"
	"strings"
)

// AttrKind discriminates the opportunistically-typed annotation attribute
// values. Values that are not recognizably bool, integer, quoted string, or
// array remain raw text.
type AttrKind int

const (
	AttrRaw AttrKind = iota
	AttrString
	AttrBool
	AttrInt
	AttrList
)

// AttrValue is a tagged variant holding one annotation attribute value.
// Exactly one of the typed fields is meaningful, selected by Kind; Raw
// always preserves the original source text.
type AttrValue struct {
	Kind AttrKind `json:"kind"`
	Raw  string   `json:"raw"`

	Str  string   `json:"str,omitempty"`
	Bool bool     `json:"bool,omitempty"`
	Int  int      `json:"int,omitempty"`
	List []string `json:"list,omitempty"`
}

// String returns the canonical textual form of the value.
func (v AttrValue) String() string {
	switch v.Kind {
	case AttrString:
		return v.Str
	case AttrList:
		return strings.Join(v.List, ",")
	default:
		return v.Raw
	}
}

// IsTrue reports whether the value is the boolean literal true.
func (v AttrValue) IsTrue() bool {
	return v.Kind == AttrBool && v.Bool
}

// IsFalse reports whether the value is the boolean literal false.
func (v AttrValue) IsFalse() bool {
	return v.Kind == AttrBool && !v.Bool
}

// RawString builds an AttrValue carrying unrecognized raw text.
func RawString(s string) AttrValue {
	return AttrValue{Kind: AttrRaw, Raw: s}
}

// StringValue builds an AttrValue for an unquoted string.
func StringValue(s string) AttrValue {
	return AttrValue{Kind: AttrString, Raw: s, Str: s}
}

// BoolValue builds a boolean AttrValue.
func BoolValue(b bool) AttrValue {
	raw := "false"
	if b {
		raw = "true"
	}
	return AttrValue{Kind: AttrBool, Raw: raw, Bool: b}
}

// IntValue builds an integer AttrValue.
func IntValue(raw string, n int) AttrValue {
	return AttrValue{Kind: AttrInt, Raw: raw, Int: n}
}

// ListValue builds an array-like AttrValue.
func ListValue(raw string, items []string) AttrValue {
	return AttrValue{Kind: AttrList, Raw: raw, List: items}
}

// SourceAnnotation is one decorator/attribute occurrence (@Test, [Fact],
// a Gherkin tag) with its parsed attributes. Created during parsing and
// never mutated afterwards.
type SourceAnnotation struct {
	Name       string               `json:"name"`
	Attributes map[string]AttrValue `json:"attributes,omitempty"`
}

// NewAnnotation creates an annotation with no attributes.
func NewAnnotation(name string) SourceAnnotation {
	return SourceAnnotation{Name: name}
}

// Attr returns the attribute value for key, and whether it was present.
func (a SourceAnnotation) Attr(key string) (AttrValue, bool) {
	v, ok := a.Attributes[key]
	return v, ok
}

// AttrString returns the canonical string form of an attribute, or "" when
// the attribute is absent.
func (a SourceAnnotation) AttrString(key string) string {
	if v, ok := a.Attributes[key]; ok {
		return v.String()
	}
	return ""
}

// AttrKeys returns the attribute keys in sorted order. Attribute maps are
// semantically unordered; sorting keeps output deterministic.
func (a SourceAnnotation) AttrKeys() []string {
	keys := make([]string, 0, len(a.Attributes))
	for k := range a.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
