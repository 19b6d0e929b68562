// Package cpu implements the CPU compute backend.
package cpu

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Supports reports whether element-wise operations exist for the dtype.
// Half-precision dtypes have no native arithmetic and are not supported.
func (cpu *CPUBackend) Supports(dt tensor.DataType) bool {
	switch dt {
	case tensor.Float32, tensor.Float64, tensor.Int32, tensor.Int64:
		return true
	default:
		return false
	}
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, addInplace, addVectorized, addWithBroadcast)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, subInplace, subVectorized, subWithBroadcast)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, mulInplace, mulVectorized, mulWithBroadcast)
}

// binary runs one element-wise operation, choosing the inplace path when
// a is the unique reference to its buffer, the vectorized path for equal
// shapes, and the strided broadcast path otherwise.
func (cpu *CPUBackend) binary(
	name string,
	a, b *tensor.RawTensor,
	inplace func(a, b *tensor.RawTensor),
	vectorized func(result, a, b *tensor.RawTensor),
	broadcast func(result, a, b *tensor.RawTensor, outShape tensor.Shape),
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			inplace(a, b)
			return a
		}
		result := newResult(name, outShape, a)
		vectorized(result, a, b)
		return result
	}

	result := newResult(name, outShape, a)
	broadcast(result, a, b, outShape)
	return result
}

func newResult(name string, shape tensor.Shape, like *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, like.DType(), like.Device())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	return result
}
