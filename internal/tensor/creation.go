package tensor

import (
	"fmt"
	"unsafe"
)

// elems returns the typed element view of a tensor whose dtype matches T.
// Callers must only use it right after construction, before the tensor
// escapes to other owners.
func elems[T DType](r *RawTensor) []T {
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&r.buffer.data[0])), n)
}

// Zeros creates a zero-filled tensor with the dtype inferred from T.
func Zeros[T DType](shape Shape) (*RawTensor, error) {
	var dummy T
	return NewRaw(shape, inferDataType(dummy), CPU)
}

// Full creates a tensor filled with the given value.
func Full[T DType](shape Shape, value T) (*RawTensor, error) {
	r, err := NewRaw(shape, inferDataType(value), CPU)
	if err != nil {
		return nil, err
	}
	out := elems[T](r)
	for i := range out {
		out[i] = value
	}
	return r, nil
}

// Ones creates a tensor filled with ones (true for bool).
func Ones[T DType](shape Shape) (*RawTensor, error) {
	return Full(shape, oneValue[T]())
}

// FromSlice builds a tensor from a flat row-major element slice.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("FromSlice: %d elements do not fill shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	var dummy T
	r, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}
	copy(elems[T](r), data)
	return r, nil
}

func oneValue[T DType]() T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *int32:
		*p = 1
	case *int64:
		*p = 1
	case *uint8:
		*p = 1
	case *bool:
		*p = true
	}
	return v
}
