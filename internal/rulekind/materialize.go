package rulekind

import (
	"context"

	"github.com/vk/extreg/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Directories identifies the workspace roots a materialized rule may later
// be resolved against. The materializer itself never touches the
// filesystem; the paths are carried through onto the rule for downstream
// stages.
type Directories struct {
	Workspace  string
	OutputBase string
}

// MaterializeRequest carries everything a materializer needs to turn raw
// attribute values into a validated rule.
type MaterializeRequest struct {
	// BasePackage is the namespace the rule is created in.
	BasePackage string

	// RepoMapping translates apparent repository names in label-valued
	// attributes to their canonical forms. May be nil when no mapping is
	// in effect.
	RepoMapping map[string]string

	// Directories are the workspace roots, passed through to the rule.
	Directories Directories

	// SemanticsVersion pins the evaluation semantics the caller runs
	// under, so validation behavior stays reproducible across releases.
	SemanticsVersion string

	// CallerLabel names the operation requesting materialization; it
	// appears in debug logging only.
	CallerLabel string

	// Kind is the rule class the attribute values must satisfy.
	Kind *Kind

	// Attrs are the raw attribute values, including the mandatory "name"
	// entry (already rewritten to its externally unique form).
	Attrs map[string]cty.Value
}

// Rule is a validated, materialized rule instance. Attribute values have
// been coerced to their schema types and defaults applied.
type Rule struct {
	name  string
	kind  *Kind
	attrs map[string]cty.Value
}

// Name returns the rule's externally unique repository name.
func (r *Rule) Name() string {
	return r.name
}

// Kind returns the rule class this rule was materialized from.
func (r *Rule) Kind() *Kind {
	return r.kind
}

// Attr returns the normalized value of one attribute and whether it is
// set. The "name" attribute is addressable here like any other.
func (r *Rule) Attr(name string) (cty.Value, bool) {
	val, ok := r.attrs[name]
	return val, ok
}

// Materializer validates raw attribute values against a rule kind's schema
// and produces a rule instance. Implementations return *InvalidRuleError
// for schema violations and *PackageLookupError when the kind itself
// cannot be resolved.
type Materializer interface {
	Materialize(ctx context.Context, req MaterializeRequest) (*Rule, error)
}

// SchemaMaterializer is the production Materializer. It is stateless and
// safe for reuse across evaluations.
type SchemaMaterializer struct{}

// NewSchemaMaterializer returns a Materializer backed by the kinds'
// declared attribute schemas.
func NewSchemaMaterializer() *SchemaMaterializer {
	return &SchemaMaterializer{}
}

// Materialize validates req.Attrs against req.Kind's schema. Provided
// values are converted to their declared types, absent or null optional
// attributes take their defaults, and mandatory attributes must be
// present with a non-null value.
func (m *SchemaMaterializer) Materialize(ctx context.Context, req MaterializeRequest) (*Rule, error) {
	if req.Kind == nil {
		return nil, packageLookupf("", "no repository rule kind given")
	}
	kind := req.Kind
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Materializing repository rule.",
		"kind", kind.Name(), "caller", req.CallerLabel, "base_package", req.BasePackage)

	nameVal, ok := req.Attrs["name"]
	if !ok || nameVal.IsNull() || nameVal.Type() != cty.String {
		return nil, invalidRulef(kind.Name(), "%s rule has no valid 'name' attribute", kind.Name())
	}
	name := nameVal.AsString()

	attrs := make(map[string]cty.Value, len(kind.AttrNames())+1)
	attrs["name"] = nameVal

	for attrName, raw := range req.Attrs {
		if attrName == "name" {
			continue
		}
		schema := kind.Attr(attrName)
		if schema == nil {
			return nil, invalidRulef(kind.Name(), "in %s rule %s: no such attribute '%s'", kind.Name(), name, attrName)
		}
		if raw.IsNull() {
			// Explicit null means "use the default", like an omitted value.
			continue
		}
		converted, err := convert.Convert(raw, schema.Type)
		if err != nil {
			return nil, invalidRulef(kind.Name(), "in %s rule %s: for attribute '%s': expected value of type %s, got %s",
				kind.Name(), name, attrName, schema.Type.FriendlyName(), raw.Type().FriendlyName())
		}
		attrs[attrName] = converted
	}

	for _, attrName := range kind.AttrNames() {
		if _, set := attrs[attrName]; set {
			continue
		}
		schema := kind.Attr(attrName)
		if schema.Mandatory {
			return nil, invalidRulef(kind.Name(), "in %s rule %s: missing value for mandatory attribute '%s'", kind.Name(), name, attrName)
		}
		if schema.Default != nil {
			attrs[attrName] = *schema.Default
		}
	}

	return &Rule{name: name, kind: kind, attrs: attrs}, nil
}
