// Package repospec defines the immutable specification produced for each
// repository a module extension declares.
//
// A Spec is a value object: once built it never changes, its attribute
// mapping is ordered (sorted by attribute name), and equality is
// structural. The synthetic "name" attribute is never part of a Spec;
// downstream consumers re-derive external names from their own prefixes.
package repospec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Spec describes how to materialize one external repository: which
// definition unit supplies the rule's behavior, which rule kind to
// instantiate, and the validated attribute values to instantiate it with.
type Spec struct {
	sourceDefinition string
	ruleKind         string
	attrNames        []string
	attrs            map[string]cty.Value
}

// New builds a Spec from the defining unit's label, the rule kind name and
// the validated attribute values. The attrs map is copied; the reserved
// "name" key is rejected because it must be stripped before construction.
func New(sourceDefinition, ruleKind string, attrs map[string]cty.Value) (*Spec, error) {
	if sourceDefinition == "" {
		return nil, fmt.Errorf("repospec: source definition may not be empty")
	}
	if ruleKind == "" {
		return nil, fmt.Errorf("repospec: rule kind may not be empty")
	}
	if _, ok := attrs["name"]; ok {
		return nil, fmt.Errorf("repospec: attribute set must not contain the reserved 'name' attribute")
	}

	names := make([]string, 0, len(attrs))
	copied := make(map[string]cty.Value, len(attrs))
	for name, val := range attrs {
		names = append(names, name)
		copied[name] = val
	}
	sort.Strings(names)

	return &Spec{
		sourceDefinition: sourceDefinition,
		ruleKind:         ruleKind,
		attrNames:        names,
		attrs:            copied,
	}, nil
}

// SourceDefinition returns the label of the unit that defines the rule
// kind's behavior.
func (s *Spec) SourceDefinition() string {
	return s.sourceDefinition
}

// RuleKind returns the name of the rule class used to construct the repo.
func (s *Spec) RuleKind() string {
	return s.ruleKind
}

// AttrNames returns the attribute names in their canonical (sorted) order.
// The returned slice is a copy.
func (s *Spec) AttrNames() []string {
	names := make([]string, len(s.attrNames))
	copy(names, s.attrNames)
	return names
}

// Attr returns the value of a single attribute and whether it is present.
func (s *Spec) Attr(name string) (cty.Value, bool) {
	val, ok := s.attrs[name]
	return val, ok
}

// Equal reports structural equality: same source definition, rule kind,
// attribute names and attribute values.
func (s *Spec) Equal(other *Spec) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.sourceDefinition != other.sourceDefinition || s.ruleKind != other.ruleKind {
		return false
	}
	if len(s.attrNames) != len(other.attrNames) {
		return false
	}
	for _, name := range s.attrNames {
		otherVal, ok := other.attrs[name]
		if !ok || !s.attrs[name].RawEquals(otherVal) {
			return false
		}
	}
	return true
}

// String renders the spec in a compact diagnostic form.
func (s *Spec) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s%%%s(", s.sourceDefinition, s.ruleKind)
	for i, name := range s.attrNames {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s = %s", name, s.attrs[name].GoString())
	}
	buf.WriteByte(')')
	return buf.String()
}

// MarshalJSON renders the spec with attributes in canonical order, so the
// serialized form is deterministic across runs.
func (s *Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"source_definition":`)
	if err := writeJSONString(&buf, s.sourceDefinition); err != nil {
		return nil, err
	}
	buf.WriteString(`,"rule_kind":`)
	if err := writeJSONString(&buf, s.ruleKind); err != nil {
		return nil, err
	}

	buf.WriteString(`,"attributes":{`)
	for i, name := range s.attrNames {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		val := s.attrs[name]
		encoded, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		buf.Write(encoded)
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
