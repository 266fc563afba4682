package policy

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// An HCL policy uses the same attribute names as the YAML form. Checks can
// also be switched off with blocks:
//
//	allocators = ["@mi_malloc"]
//	check "division" {
//	  enabled = false
//	}
var policySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "disable"},
		{Name: "allocators"},
		{Name: "functions"},
		{Name: "fail_on_warning"},
		{Name: "format"},
		{Name: "verbosity"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "check", LabelNames: []string{"name"}},
	},
}

func decodeHCL(data []byte, filename string, p *Policy) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	content, diags := file.Body.Content(policySchema)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse policy: %s", diags.Error())
	}

	for name, attr := range content.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("attribute %q: %s", name, diags.Error())
		}
		if val.IsNull() {
			continue
		}

		var err error
		switch name {
		case "disable":
			p.Disable, err = stringList(val)
		case "allocators":
			p.Allocators, err = stringList(val)
		case "functions":
			p.Functions, err = stringList(val)
		case "fail_on_warning":
			if val.Type() != cty.Bool {
				err = fmt.Errorf("expected bool")
			} else {
				p.FailOnWarning = val.True()
			}
		case "format":
			if val.Type() != cty.String {
				err = fmt.Errorf("expected string")
			} else {
				p.Format = val.AsString()
			}
		case "verbosity":
			if val.Type() != cty.Number {
				err = fmt.Errorf("expected number")
			} else {
				p.Verbosity, err = intValue(val)
			}
		}
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
	}

	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("check %q: %s", block.Labels[0], diags.Error())
		}
		enabled, ok := attrs["enabled"]
		if !ok {
			continue
		}
		val, diags := enabled.Expr.Value(nil)
		if diags.HasErrors() || val.Type() != cty.Bool {
			return fmt.Errorf("check %q: enabled must be a bool", block.Labels[0])
		}
		if val.False() {
			p.Disable = append(p.Disable, block.Labels[0])
		}
	}

	return nil
}

// stringList accepts both list values and tuple literals such as ["a", "b"].
func stringList(val cty.Value) ([]string, error) {
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a list of strings")
	}
	var out []string
	it := val.ElementIterator()
	for it.Next() {
		_, v := it.Element()
		if v.Type() != cty.String || v.IsNull() {
			return nil, fmt.Errorf("expected a list of strings")
		}
		out = append(out, v.AsString())
	}
	return out, nil
}

func intValue(val cty.Value) (int, error) {
	i, acc := val.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("expected an integer")
	}
	return int(i), nil
}
