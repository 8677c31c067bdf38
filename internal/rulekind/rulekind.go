// Package rulekind models repository rule kinds: the schema and behavior
// definitions that repository declarations are validated against.
//
// The package owns three closely related concerns:
//
//   - the Kind type, an immutable description of one rule class (its name,
//     the label of the unit defining its behavior, and its attribute schema);
//   - the manifest loader, which reads rule_kind declarations from HCL
//     manifest files;
//   - the materializer, the schema-aware collaborator that validates and
//     coerces raw attribute values into a validated rule instance.
//
// The repository registry stays ignorant of individual schemas; everything
// schema-shaped lives here.
package rulekind

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// AttrSchema describes a single attribute a rule kind accepts.
type AttrSchema struct {
	// Name is the attribute name as written at declaration sites.
	Name string

	// Type is the constraint provided values are converted to.
	Type cty.Type

	// Mandatory marks attributes that every declaration must supply.
	Mandatory bool

	// Default is substituted for optional attributes that are absent or
	// explicitly null. Nil means "no default"; the attribute is then left
	// unset on the materialized rule.
	Default *cty.Value

	// Description is optional manifest documentation, carried for tooling.
	Description string
}

// Kind is an immutable rule class definition.
type Kind struct {
	name             string
	sourceDefinition string
	attrs            map[string]*AttrSchema
	attrNames        []string
}

// NewKind builds a Kind from its name, the label of its defining unit and
// its attribute schemas. The reserved "name" attribute may not appear in
// the schema list; it is synthesized by the declaration machinery.
func NewKind(name, sourceDefinition string, attrs []*AttrSchema) (*Kind, error) {
	if name == "" {
		return nil, fmt.Errorf("rule kind name may not be empty")
	}
	if sourceDefinition == "" {
		return nil, fmt.Errorf("rule kind %q: source definition may not be empty", name)
	}

	byName := make(map[string]*AttrSchema, len(attrs))
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Name == "name" {
			return nil, fmt.Errorf("rule kind %q: attribute 'name' is reserved", name)
		}
		if _, exists := byName[attr.Name]; exists {
			return nil, fmt.Errorf("rule kind %q: duplicate attribute %q", name, attr.Name)
		}
		if attr.Default != nil && !attr.Default.Type().Equals(attr.Type) {
			return nil, fmt.Errorf("rule kind %q: default for attribute %q has type %s, want %s",
				name, attr.Name, attr.Default.Type().FriendlyName(), attr.Type.FriendlyName())
		}
		schemaCopy := *attr
		byName[attr.Name] = &schemaCopy
		names = append(names, attr.Name)
	}
	sort.Strings(names)

	return &Kind{
		name:             name,
		sourceDefinition: sourceDefinition,
		attrs:            byName,
		attrNames:        names,
	}, nil
}

// Name returns the rule class name, e.g. "http_archive".
func (k *Kind) Name() string {
	return k.name
}

// SourceDefinition returns the label of the unit defining this kind's
// behavior, e.g. "@tools//repo:http.bzl".
func (k *Kind) SourceDefinition() string {
	return k.sourceDefinition
}

// Attr returns the schema for a single attribute, or nil if the kind does
// not accept it.
func (k *Kind) Attr(name string) *AttrSchema {
	return k.attrs[name]
}

// AttrNames returns all schema attribute names in sorted order.
func (k *Kind) AttrNames() []string {
	names := make([]string, len(k.attrNames))
	copy(names, k.attrNames)
	return names
}
