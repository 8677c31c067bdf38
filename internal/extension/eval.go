// Package extension evaluates module extension files.
//
// An extension file is a sequence of repo blocks:
//
//	repo "http_archive" {
//	  name   = "foo"
//	  sha256 = "abc"
//	}
//
// Each block names a rule kind in its label and supplies the repository's
// attributes, including the reserved "name", as block attributes. The
// evaluator resolves the rule kind, evaluates the attribute expressions
// and hands the declaration to the repository registry carried on the
// evaluation context, using the block's definition range as the
// declaration site. Evaluation stops at the first failing declaration.
package extension

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/extreg/internal/ctxlog"
	"github.com/vk/extreg/internal/evalctx"
	"github.com/vk/extreg/internal/rulekind"
	"github.com/zclconf/go-cty/cty"
)

var extensionSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "repo", LabelNames: []string{"rule_kind"}},
	},
}

// Evaluator runs extension files against a fixed set of loaded rule kinds.
type Evaluator struct {
	kinds map[string]*rulekind.Kind
}

// NewEvaluator creates an Evaluator over the given rule kinds.
func NewEvaluator(kinds map[string]*rulekind.Kind) *Evaluator {
	return &Evaluator{kinds: kinds}
}

// EvaluateFile parses and evaluates a single extension file. The registry
// must already be attached to ctx via evalctx.WithRegistry.
func (e *Evaluator) EvaluateFile(ctx context.Context, path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse extension file %s: %s", path, diags.Error())
	}
	return e.evaluate(ctx, file)
}

// EvaluateSource parses and evaluates extension source held in memory.
// The filename is used only for diagnostics.
func (e *Evaluator) EvaluateSource(ctx context.Context, filename string, src []byte) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse extension file %s: %s", filename, diags.Error())
	}
	return e.evaluate(ctx, file)
}

func (e *Evaluator) evaluate(ctx context.Context, file *hcl.File) error {
	logger := ctxlog.FromContext(ctx)

	content, diags := file.Body.Content(extensionSchema)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode extension file: %s", diags.Error())
	}

	reg, err := evalctx.RegistryFromContextOrFail(ctx, "repo")
	if err != nil {
		return err
	}

	for _, block := range content.Blocks {
		if err := e.evaluateRepoBlock(ctx, reg, block); err != nil {
			return err
		}
	}

	logger.Debug("Extension evaluation finished.", "repos_declared", len(content.Blocks))
	return nil
}

func (e *Evaluator) evaluateRepoBlock(ctx context.Context, reg registryDeclarer, block *hcl.Block) error {
	kindName := block.Labels[0]
	kind, ok := e.kinds[kindName]
	if !ok {
		return &rulekind.PackageLookupError{
			Kind:    kindName,
			Message: fmt.Sprintf("%s: unknown repository rule kind %q", block.DefRange, kindName),
		}
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("%s: malformed repo block: %s", block.DefRange, diags.Error())
	}

	kwargs := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("%s: attribute %q: %s", attr.Range, name, diags.Error())
		}
		kwargs[name] = val
	}

	if err := reg.Declare(ctx, kind, kwargs, block.DefRange); err != nil {
		return fmt.Errorf("%s: %w", block.DefRange, err)
	}
	return nil
}

// registryDeclarer is the slice of the registry the evaluator needs.
type registryDeclarer interface {
	Declare(ctx context.Context, kind *rulekind.Kind, kwargs map[string]cty.Value, site hcl.Range) error
}
