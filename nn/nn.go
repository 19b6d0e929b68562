// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for binding container tensors
// into model state and running the buffer-bearing forward pass.
//
// Example:
//
//	c, _ := safetensors.Load("buffer.safetensors")
//	state, err := nn.LoadState(nn.ModelDescription{Buffers: []string{"buffer"}}, c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, _ := nn.NewBufferModule("buffer", state, cpu.New())
//	out, err := m.Forward(input)
package nn

import (
	"github.com/kiln-ml/kiln/internal/nn"
	"github.com/kiln-ml/kiln/internal/safetensors"
	"github.com/kiln-ml/kiln/internal/tensor"
)

// ModelDescription declares the persistent buffers a model expects.
type ModelDescription = nn.ModelDescription

// State holds buffers resolved from a container.
type State = nn.State

// BufferModule adds a persistent buffer to its input.
type BufferModule = nn.BufferModule

// MissingTensorError reports a declared buffer absent from the container.
type MissingTensorError = nn.MissingTensorError

// ShapeMismatchError reports forward operands that cannot broadcast.
type ShapeMismatchError = nn.ShapeMismatchError

// UnsupportedDTypeError reports forward operands the backend cannot add.
type UnsupportedDTypeError = nn.UnsupportedDTypeError

// LoadState resolves every declared buffer by exact name match.
func LoadState(desc ModelDescription, c *safetensors.Container) (*State, error) {
	return nn.LoadState(desc, c)
}

// NewBufferModule binds the named buffer from a loaded state.
func NewBufferModule(name string, state *State, backend tensor.Backend) (*BufferModule, error) {
	return nn.NewBufferModule(name, state, backend)
}
