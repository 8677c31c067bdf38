package vendoring

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

var vendorFileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "ignore"},
		{Name: "pin"},
	},
}

// EvaluateFile parses and evaluates a vendor configuration file against
// the classifier carried on ctx. The file holds two optional attributes,
// each a list of canonical repo names:
//
//	ignore = ["@@somerepo"]
//	pin    = ["@@otherrepo+1.0"]
func EvaluateFile(ctx context.Context, path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse vendor file %s: %s", path, diags.Error())
	}
	return evaluate(ctx, path, file)
}

// EvaluateSource is EvaluateFile over source held in memory. The filename
// is used only for diagnostics.
func EvaluateSource(ctx context.Context, filename string, src []byte) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse vendor file %s: %s", filename, diags.Error())
	}
	return evaluate(ctx, filename, file)
}

func evaluate(ctx context.Context, filename string, file *hcl.File) error {
	content, diags := file.Body.Content(vendorFileSchema)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode vendor file %s: %s", filename, diags.Error())
	}

	if attr, ok := content.Attributes["ignore"]; ok {
		classifier, err := ClassifierFromContextOrFail(ctx, "ignore")
		if err != nil {
			return err
		}
		if err := applyNames(attr, classifier.Ignore); err != nil {
			return err
		}
	}
	if attr, ok := content.Attributes["pin"]; ok {
		classifier, err := ClassifierFromContextOrFail(ctx, "pin")
		if err != nil {
			return err
		}
		if err := applyNames(attr, classifier.Pin); err != nil {
			return err
		}
	}
	return nil
}

func applyNames(attr *hcl.Attribute, apply func(string) error) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("%s: %s", attr.Range, diags.Error())
	}
	if !val.CanIterateElements() {
		return fmt.Errorf("%s: %s must be a list of canonical repo names", attr.Range, attr.Name)
	}
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || !elem.Type().Equals(cty.String) {
			return fmt.Errorf("%s: %s entries must be strings", attr.Range, attr.Name)
		}
		if err := apply(elem.AsString()); err != nil {
			return fmt.Errorf("%s: %w", attr.Range, err)
		}
	}
	return nil
}
