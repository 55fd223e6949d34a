package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// decodeData evaluates the data attribute of a node into plain Go values.
func decodeData(nb *nodeBlock, evalCtx *hcl.EvalContext) (map[string]any, error) {
	out := make(map[string]any)
	if !isExprDefined(nb.Data) {
		return out, nil
	}

	val, diags := nb.Data.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node '%s': failed to evaluate data: %w", nb.ID, diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("node '%s': data must be an object, got %s", nb.ID, val.Type().FriendlyName())
	}

	decoded, err := ctyValueToInterface(val)
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", nb.ID, err)
	}
	return decoded.(map[string]any), nil
}

// isExprDefined reports whether an optional attribute was present in the
// source. Omitted attributes decode to a zero-width placeholder expression.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// ctyValueToInterface converts a cty.Value into plain Go values: string,
// float64, bool, map[string]any and []any.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", ty.FriendlyName())
		}
	}
	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			conv, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = conv
		}
		return out, nil
	}
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			conv, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}
