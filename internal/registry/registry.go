package registry

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/extreg/internal/ctxlog"
	"github.com/vk/extreg/internal/reponame"
	"github.com/vk/extreg/internal/repospec"
	"github.com/vk/extreg/internal/rulekind"
	"github.com/zclconf/go-cty/cty"
)

// callerLabel identifies Declare to the materializer for debug logging.
const callerLabel = "Registry.Declare"

// declaration pairs a generated specification with the source location of
// the call that produced it. The location exists purely for conflict
// diagnostics.
type declaration struct {
	spec *repospec.Spec
	site hcl.Range
}

// Config carries the evaluation-scoped inputs a Registry needs. All fields
// are fixed for the lifetime of one extension evaluation.
type Config struct {
	// NamePrefix is prepended to every user-chosen repository name to
	// form the globally unique external identifier, e.g. "mymod+myext+".
	NamePrefix string

	// BasePackage is the namespace repository rules are created in.
	BasePackage string

	// RepoMapping translates apparent repo names in label-valued
	// attributes; passed through to the materializer untouched.
	RepoMapping map[string]string

	// Directories are the workspace roots, passed through to the
	// materializer untouched.
	Directories rulekind.Directories

	// SemanticsVersion pins evaluation semantics for reproducibility.
	SemanticsVersion string

	// Materializer validates attribute values against rule kind schemas.
	Materializer rulekind.Materializer
}

// Registry accumulates the repositories one module extension declares.
// It is scoped to a single, sequential evaluation and needs no locking;
// parallel evaluations of different extensions each get their own
// instance.
type Registry struct {
	cfg          Config
	declarations map[string]declaration
}

// New creates an empty Registry for one extension evaluation.
func New(cfg Config) *Registry {
	return &Registry{
		cfg:          cfg,
		declarations: make(map[string]declaration),
	}
}

// NamePrefix returns the prefix applied to every declared name.
func (r *Registry) NamePrefix() string {
	return r.cfg.NamePrefix
}

// Declare records one repository declaration.
//
// kwargs is the raw, unordered attribute mapping from the declaration
// site and must contain the reserved "name" entry. site is the caller's
// source location, stored as-is for later conflict diagnostics.
//
// On any failure the registry is left unchanged. The error is one of
// *NameError, *ConflictError or *AttributeError.
func (r *Registry) Declare(ctx context.Context, kind *rulekind.Kind, kwargs map[string]cty.Value, site hcl.Range) error {
	name, err := extractName(kwargs)
	if err != nil {
		return err
	}

	if prior, exists := r.declarations[name]; exists {
		return &ConflictError{Name: name, First: prior.site}
	}

	externalName := r.cfg.NamePrefix + name

	substituted := make(map[string]cty.Value, len(kwargs))
	for key, val := range kwargs {
		if key == "name" {
			substituted[key] = cty.StringVal(externalName)
		} else {
			substituted[key] = val
		}
	}

	rule, err := r.cfg.Materializer.Materialize(ctx, rulekind.MaterializeRequest{
		BasePackage:      r.cfg.BasePackage,
		RepoMapping:      r.cfg.RepoMapping,
		Directories:      r.cfg.Directories,
		SemanticsVersion: r.cfg.SemanticsVersion,
		CallerLabel:      callerLabel,
		Kind:             kind,
		Attrs:            substituted,
	})
	if err != nil {
		return &AttributeError{RuleKind: kind.Name(), Err: err}
	}

	// Read the normalized values back from the validated rule so the
	// specification carries coerced values, not the raw ones.
	attrs := make(map[string]cty.Value, len(kwargs)-1)
	for key := range kwargs {
		if key == "name" {
			continue
		}
		if val, ok := rule.Attr(key); ok {
			attrs[key] = val
		}
	}

	spec, err := repospec.New(kind.SourceDefinition(), kind.Name(), attrs)
	if err != nil {
		return &AttributeError{RuleKind: kind.Name(), Err: err}
	}

	r.declarations[name] = declaration{spec: spec, site: site}

	ctxlog.FromContext(ctx).Debug("Declared repository.",
		"name", name, "external_name", externalName, "kind", kind.Name(), "site", site.String())
	return nil
}

// ExtractAll returns a snapshot of every successfully declared
// specification, keyed by the unprefixed names used at declaration time.
// It never mutates registry state and may be called repeatedly; calls
// with no intervening Declare return structurally equal results.
func (r *Registry) ExtractAll() map[string]*repospec.Spec {
	specs := make(map[string]*repospec.Spec, len(r.declarations))
	for name, decl := range r.declarations {
		specs[name] = decl.spec
	}
	return specs
}

// extractName pulls the reserved "name" entry out of the raw attribute
// values and validates its syntax.
func extractName(kwargs map[string]cty.Value) (string, error) {
	val, ok := kwargs["name"]
	if !ok || val.IsNull() {
		return "", namef("missing value for attribute 'name'")
	}
	if val.Type() != cty.String {
		return "", namef("expected string for attribute 'name', got %s", val.Type().FriendlyName())
	}
	name := val.AsString()
	if err := reponame.Validate(name); err != nil {
		return "", &NameError{Message: err.Error()}
	}
	return name, nil
}
