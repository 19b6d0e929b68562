// Package safetensors decodes and encodes the safetensors container
// format: an 8-byte little-endian header length, a JSON header mapping
// tensor names to dtype/shape/byte-range triples, and a flat payload.
package safetensors

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// DType is a dtype tag as spelled in a safetensors header.
type DType string

// Recognized dtype tags.
const (
	F16  DType = "F16"
	BF16 DType = "BF16"
	F32  DType = "F32"
	F64  DType = "F64"
	I32  DType = "I32"
	I64  DType = "I64"
	U8   DType = "U8"
	BOOL DType = "BOOL"
)

// DataType maps the tag onto the runtime tensor dtype. The second
// result is false for unrecognized tags.
func (d DType) DataType() (tensor.DataType, bool) {
	switch d {
	case F16:
		return tensor.Float16, true
	case BF16:
		return tensor.BFloat16, true
	case F32:
		return tensor.Float32, true
	case F64:
		return tensor.Float64, true
	case I32:
		return tensor.Int32, true
	case I64:
		return tensor.Int64, true
	case U8:
		return tensor.Uint8, true
	case BOOL:
		return tensor.Bool, true
	default:
		return 0, false
	}
}

// Size returns the element width in bytes, or 0 for unrecognized tags.
func (d DType) Size() int {
	dt, ok := d.DataType()
	if !ok {
		return 0
	}
	return dt.Size()
}

// tagOf spells a runtime dtype as its header tag.
func tagOf(dt tensor.DataType) DType {
	switch dt {
	case tensor.Float16:
		return F16
	case tensor.BFloat16:
		return BF16
	case tensor.Float32:
		return F32
	case tensor.Float64:
		return F64
	case tensor.Int32:
		return I32
	case tensor.Int64:
		return I64
	case tensor.Uint8:
		return U8
	case tensor.Bool:
		return BOOL
	default:
		return ""
	}
}

// Float32Values widens a floating tensor's elements to float32.
// F16 and BF16 widen exactly (every half value is representable as
// float32); F32 is returned as a copy. Other dtypes return an error.
func Float32Values(t *tensor.RawTensor) ([]float32, error) {
	switch t.DType() {
	case tensor.Float32:
		src := t.AsFloat32()
		out := make([]float32, len(src))
		copy(out, src)
		return out, nil
	case tensor.Float16:
		src := t.AsUint16()
		out := make([]float32, len(src))
		for i, bits := range src {
			out[i] = float16.Frombits(bits).Float32()
		}
		return out, nil
	case tensor.BFloat16:
		src := t.AsUint16()
		out := make([]float32, len(src))
		for i, bits := range src {
			out[i] = math.Float32frombits(uint32(bits) << 16)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("safetensors: dtype %s has no float32 widening", t.DType())
	}
}
