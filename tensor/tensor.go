// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor values in the Kiln
// import toolkit.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	y, _ := tensor.Trilu(x, tensor.TriangularParams{Upper: true})
package tensor

import (
	"github.com/kiln-ml/kiln/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Int32    DataType = tensor.Int32
	Int64    DataType = tensor.Int64
	Uint8    DataType = tensor.Uint8
	Bool     DataType = tensor.Bool
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// RawTensor is the dtype-erased tensor value the importer operates on.
type RawTensor = tensor.RawTensor

// Backend is the compute interface implemented by backend/cpu.
type Backend = tensor.Backend

// TriangularParams selects the kept region for triangular extraction.
type TriangularParams = tensor.TriangularParams

// ShapeError reports an operation applied to an input of invalid rank
// or dimensions.
type ShapeError = tensor.ShapeError

// NewRaw creates a zero-initialized tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Trilu extracts the upper or lower triangular part of each matrix in x.
func Trilu(x *RawTensor, p TriangularParams) (*RawTensor, error) {
	return tensor.Trilu(x, p)
}

// BroadcastShapes applies NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// FromSlice builds a tensor from a flat row-major element slice.
func FromSlice[T tensor.DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a zero-filled tensor with the dtype inferred from T.
func Zeros[T tensor.DType](shape Shape) (*RawTensor, error) {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones (true for bool).
func Ones[T tensor.DType](shape Shape) (*RawTensor, error) {
	return tensor.Ones[T](shape)
}
