package onnx

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// registerTensorOps adds the supported operators to the registry.
func (r *Registry) registerTensorOps() {
	r.Register("Trilu", handleTrilu)
	r.Register("Add", handleAdd)
}

// handleTrilu maps a Trilu node onto tensor.Trilu. The diagonal offset
// comes from the optional second input (an int64/int32 scalar, the
// ONNX form) or from a "diagonal"/"k" attribute; the "upper" attribute
// defaults to 1, as in the ONNX operator.
func handleTrilu(_ *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) < 1 || len(inputs) > 2 || inputs[0] == nil {
		return nil, fmt.Errorf("trilu requires 1 or 2 inputs, got %d", len(inputs))
	}

	params := tensor.TriangularParams{
		Upper:    GetAttrInt(node, "upper", 1) != 0,
		Diagonal: int(GetAttrInt(node, "diagonal", GetAttrInt(node, "k", 0))),
	}
	if len(inputs) == 2 && inputs[1] != nil {
		k, err := scalarInt(inputs[1])
		if err != nil {
			return nil, fmt.Errorf("trilu: k input: %w", err)
		}
		params.Diagonal = int(k)
	}

	result, err := tensor.Trilu(inputs[0], params)
	if err != nil {
		return nil, fmt.Errorf("trilu: %w", err)
	}
	return []*tensor.RawTensor{result}, nil
}

// handleAdd performs broadcast element-wise addition. Graph inputs may
// be consumed by several nodes, so the left operand is pinned
// non-unique for the call: the backend's inplace fast path must never
// write into a node input.
func handleAdd(ctx *Context, _ *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 2 || inputs[0] == nil || inputs[1] == nil {
		return nil, fmt.Errorf("add requires 2 inputs, got %d", len(inputs))
	}
	if _, _, err := tensor.BroadcastShapes(inputs[0].Shape(), inputs[1].Shape()); err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	if inputs[0].DType() != inputs[1].DType() || !ctx.Backend.Supports(inputs[0].DType()) {
		return nil, fmt.Errorf("add: unsupported dtype pair %s, %s", inputs[0].DType(), inputs[1].DType())
	}

	defer inputs[0].ForceNonUnique()()
	result := ctx.Backend.Add(inputs[0], inputs[1])
	return []*tensor.RawTensor{result}, nil
}

// scalarInt reads a single-element integer tensor.
func scalarInt(t *tensor.RawTensor) (int64, error) {
	if t.NumElements() != 1 {
		return 0, fmt.Errorf("expected scalar, got shape %v", t.Shape())
	}
	switch t.DType() {
	case tensor.Int64:
		return t.AsInt64()[0], nil
	case tensor.Int32:
		return int64(t.AsInt32()[0]), nil
	default:
		return 0, fmt.Errorf("expected integer scalar, got dtype %s", t.DType())
	}
}
