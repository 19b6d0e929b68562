package cpu

import (
	"github.com/kiln-ml/kiln/internal/tensor"
)

// number covers the dtypes the element-wise backend operations support.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

func addOf[T number](x, y T) T { return x + y }
func subOf[T number](x, y T) T { return x - y }
func mulOf[T number](x, y T) T { return x * y }

// ewInplace computes a[i] = op(a[i], b[i]).
// Requires: a.Shape().Equal(b.Shape()) && a.IsUnique().
func ewInplace[T number](a, b []T, op func(T, T) T) {
	for i := range a {
		a[i] = op(a[i], b[i])
	}
}

// ewVectorized computes dst[i] = op(a[i], b[i]) for equal shapes.
func ewVectorized[T number](dst, a, b []T, op func(T, T) T) {
	for i := range a {
		dst[i] = op(a[i], b[i])
	}
}

// ewBroadcast computes dst = op(a, b) with stride-0 broadcasting.
func ewBroadcast[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op func(T, T) T) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx := flatIndex(i, outStrides, aStrides)
		bIdx := flatIndex(i, outStrides, bStrides)
		dst[i] = op(a[aIdx], b[bIdx])
	}
}

func addInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewInplace(a.AsFloat32(), b.AsFloat32(), addOf[float32])
	case tensor.Float64:
		ewInplace(a.AsFloat64(), b.AsFloat64(), addOf[float64])
	case tensor.Int32:
		ewInplace(a.AsInt32(), b.AsInt32(), addOf[int32])
	case tensor.Int64:
		ewInplace(a.AsInt64(), b.AsInt64(), addOf[int64])
	default:
		panic("addInplace: unsupported dtype")
	}
}

func addVectorized(result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewVectorized(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), addOf[float32])
	case tensor.Float64:
		ewVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), addOf[float64])
	case tensor.Int32:
		ewVectorized(result.AsInt32(), a.AsInt32(), b.AsInt32(), addOf[int32])
	case tensor.Int64:
		ewVectorized(result.AsInt64(), a.AsInt64(), b.AsInt64(), addOf[int64])
	default:
		panic("addVectorized: unsupported dtype")
	}
}

func addWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		ewBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, addOf[float32])
	case tensor.Float64:
		ewBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, addOf[float64])
	case tensor.Int32:
		ewBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, addOf[int32])
	case tensor.Int64:
		ewBroadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, addOf[int64])
	default:
		panic("addWithBroadcast: unsupported dtype")
	}
}

func subInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewInplace(a.AsFloat32(), b.AsFloat32(), subOf[float32])
	case tensor.Float64:
		ewInplace(a.AsFloat64(), b.AsFloat64(), subOf[float64])
	case tensor.Int32:
		ewInplace(a.AsInt32(), b.AsInt32(), subOf[int32])
	case tensor.Int64:
		ewInplace(a.AsInt64(), b.AsInt64(), subOf[int64])
	default:
		panic("subInplace: unsupported dtype")
	}
}

func subVectorized(result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewVectorized(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), subOf[float32])
	case tensor.Float64:
		ewVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), subOf[float64])
	case tensor.Int32:
		ewVectorized(result.AsInt32(), a.AsInt32(), b.AsInt32(), subOf[int32])
	case tensor.Int64:
		ewVectorized(result.AsInt64(), a.AsInt64(), b.AsInt64(), subOf[int64])
	default:
		panic("subVectorized: unsupported dtype")
	}
}

func subWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		ewBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, subOf[float32])
	case tensor.Float64:
		ewBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, subOf[float64])
	case tensor.Int32:
		ewBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, subOf[int32])
	case tensor.Int64:
		ewBroadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, subOf[int64])
	default:
		panic("subWithBroadcast: unsupported dtype")
	}
}

func mulInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewInplace(a.AsFloat32(), b.AsFloat32(), mulOf[float32])
	case tensor.Float64:
		ewInplace(a.AsFloat64(), b.AsFloat64(), mulOf[float64])
	case tensor.Int32:
		ewInplace(a.AsInt32(), b.AsInt32(), mulOf[int32])
	case tensor.Int64:
		ewInplace(a.AsInt64(), b.AsInt64(), mulOf[int64])
	default:
		panic("mulInplace: unsupported dtype")
	}
}

func mulVectorized(result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		ewVectorized(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), mulOf[float32])
	case tensor.Float64:
		ewVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), mulOf[float64])
	case tensor.Int32:
		ewVectorized(result.AsInt32(), a.AsInt32(), b.AsInt32(), mulOf[int32])
	case tensor.Int64:
		ewVectorized(result.AsInt64(), a.AsInt64(), b.AsInt64(), mulOf[int64])
	default:
		panic("mulVectorized: unsupported dtype")
	}
}

func mulWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		ewBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, mulOf[float32])
	case tensor.Float64:
		ewBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, mulOf[float64])
	case tensor.Int32:
		ewBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, mulOf[int32])
	case tensor.Int64:
		ewBroadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, mulOf[int64])
	default:
		panic("mulWithBroadcast: unsupported dtype")
	}
}
