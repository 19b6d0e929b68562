// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package onnx provides the public API for executing supported
// operator nodes from an ONNX-style graph export.
package onnx

import (
	"github.com/kiln-ml/kiln/internal/onnx"
)

// Node represents one operation node of an exported graph.
type Node = onnx.Node

// Attribute represents a node attribute.
type Attribute = onnx.Attribute

// Context provides the execution context for operators.
type Context = onnx.Context

// OpHandler processes one graph node and returns its output tensors.
type OpHandler = onnx.OpHandler

// Registry maps operator types to handler functions.
type Registry = onnx.Registry

// NewRegistry creates a registry with all supported operators.
func NewRegistry() *Registry {
	return onnx.NewRegistry()
}
