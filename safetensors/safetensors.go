// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package safetensors provides the public API for parsing and writing
// safetensors containers.
//
// Example:
//
//	c, err := safetensors.Load("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range c.Names() {
//	    t, _ := c.Tensor(name)
//	    fmt.Println(name, t.DType(), t.Shape())
//	}
package safetensors

import (
	"github.com/kiln-ml/kiln/internal/safetensors"
	"github.com/kiln-ml/kiln/internal/tensor"
)

// DType is a dtype tag as spelled in a container header.
type DType = safetensors.DType

// Recognized dtype tags.
const (
	F16  DType = safetensors.F16
	BF16 DType = safetensors.BF16
	F32  DType = safetensors.F32
	F64  DType = safetensors.F64
	I32  DType = safetensors.I32
	I64  DType = safetensors.I64
	U8   DType = safetensors.U8
	BOOL DType = safetensors.BOOL
)

// Container is an ordered collection of named tensors.
type Container = safetensors.Container

// FormatError reports a malformed container.
type FormatError = safetensors.FormatError

// Parse decodes a safetensors byte buffer.
func Parse(data []byte) (*Container, error) {
	return safetensors.Parse(data)
}

// Marshal serializes a container into the safetensors layout.
func Marshal(c *Container) ([]byte, error) {
	return safetensors.Marshal(c)
}

// NewContainer builds a container from tensors in the given order.
func NewContainer(names []string, tensors map[string]*tensor.RawTensor) (*Container, error) {
	return safetensors.NewContainer(names, tensors)
}

// Load reads and parses a safetensors file.
func Load(path string) (*Container, error) {
	return safetensors.Load(path)
}

// WriteFile serializes a container and writes it to path.
func WriteFile(path string, c *Container) error {
	return safetensors.WriteFile(path, c)
}

// Float32Values widens a floating tensor's elements to float32.
func Float32Values(t *tensor.RawTensor) ([]float32, error) {
	return safetensors.Float32Values(t)
}
