package rulekind

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/extreg/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/convert"
)

// --- Manifest Schemas ---

// attributeBlock is one `attribute` block inside a rule_kind manifest.
type attributeBlock struct {
	Name        string         `hcl:"attr_name,label"`
	Type        hcl.Expression `hcl:"type"`
	Mandatory   bool           `hcl:"mandatory,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// ruleKindBlock is one `rule_kind` block.
type ruleKindBlock struct {
	Name       string            `hcl:"kind_name,label"`
	Source     string            `hcl:"source"`
	Attributes []*attributeBlock `hcl:"attribute,block"`
}

// manifestFile is the top-level structure of a rule-kind manifest file.
type manifestFile struct {
	RuleKinds []*ruleKindBlock `hcl:"rule_kind,block"`
}

// LoadDir parses every *.hcl manifest in dir and returns the declared rule
// kinds keyed by name. A kind name declared in two files is an error.
func LoadDir(ctx context.Context, dir string) (map[string]*Kind, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(dir, "*.hcl"))
	if err != nil {
		return nil, fmt.Errorf("scanning rule kind manifests in %s: %w", dir, err)
	}
	sort.Strings(paths)
	logger.Debug("Loading rule kind manifests.", "dir", dir, "files", len(paths))

	kinds := make(map[string]*Kind)
	for _, path := range paths {
		fileKinds, err := LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		for name, kind := range fileKinds {
			if _, exists := kinds[name]; exists {
				return nil, fmt.Errorf("%s: rule kind %q is already declared in another manifest", path, name)
			}
			kinds[name] = kind
		}
	}
	return kinds, nil
}

// LoadFile parses a single manifest file.
func LoadFile(ctx context.Context, path string) (map[string]*Kind, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse rule kind manifest %s: %s", path, diags.Error())
	}
	return decodeManifest(ctx, path, file)
}

// LoadSource parses manifest source held in memory. The filename is used
// only for diagnostics.
func LoadSource(ctx context.Context, filename string, src []byte) (map[string]*Kind, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse rule kind manifest %s: %s", filename, diags.Error())
	}
	return decodeManifest(ctx, filename, file)
}

func decodeManifest(ctx context.Context, filename string, file *hcl.File) (map[string]*Kind, error) {
	logger := ctxlog.FromContext(ctx)

	var manifest manifestFile
	diags := gohcl.DecodeBody(file.Body, nil, &manifest)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode rule kind manifest %s: %s", filename, diags.Error())
	}

	kinds := make(map[string]*Kind, len(manifest.RuleKinds))
	for _, block := range manifest.RuleKinds {
		if _, exists := kinds[block.Name]; exists {
			return nil, fmt.Errorf("%s: duplicate rule_kind block %q", filename, block.Name)
		}
		kind, err := translateRuleKind(block)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		kinds[block.Name] = kind
		logger.Debug("Loaded rule kind.", "kind", block.Name, "attributes", len(block.Attributes))
	}
	return kinds, nil
}

// translateRuleKind converts the HCL-specific block into the immutable
// Kind model, resolving type constraints and constant defaults.
func translateRuleKind(block *ruleKindBlock) (*Kind, error) {
	attrs := make([]*AttrSchema, 0, len(block.Attributes))
	for _, attr := range block.Attributes {
		ty, diags := typeexpr.TypeConstraint(attr.Type)
		if diags.HasErrors() {
			return nil, fmt.Errorf("rule kind %q, attribute %q: invalid type constraint: %s",
				block.Name, attr.Name, diags.Error())
		}

		schema := &AttrSchema{
			Name:        attr.Name,
			Type:        ty,
			Mandatory:   attr.Mandatory,
			Description: attr.Description,
		}

		if attr.Default != nil {
			val, diags := attr.Default.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("rule kind %q, attribute %q: default must be a constant expression: %s",
					block.Name, attr.Name, diags.Error())
			}
			if !val.IsNull() {
				converted, err := convert.Convert(val, ty)
				if err != nil {
					return nil, fmt.Errorf("rule kind %q, attribute %q: default does not conform to type %s: %w",
						block.Name, attr.Name, ty.FriendlyName(), err)
				}
				if attr.Mandatory {
					return nil, fmt.Errorf("rule kind %q, attribute %q: mandatory attributes may not declare a default",
						block.Name, attr.Name)
				}
				schema.Default = &converted
			}
		}

		attrs = append(attrs, schema)
	}

	return NewKind(block.Name, block.Source, attrs)
}
