package safetensors

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// Container is an ordered collection of named tensors decoded from a
// safetensors buffer. Iteration via Names follows header declaration
// order; lookups are by name. Containers are immutable after parse.
type Container struct {
	names    []string
	tensors  map[string]*tensor.RawTensor
	metadata map[string]string
}

// NewContainer builds a container from tensors in the given order,
// typically for serialization. Duplicate or unknown-dtype tensors are
// rejected.
func NewContainer(names []string, tensors map[string]*tensor.RawTensor) (*Container, error) {
	if len(names) != len(tensors) {
		return nil, fmt.Errorf("safetensors: %d names for %d tensors", len(names), len(tensors))
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		t, ok := tensors[name]
		if !ok {
			return nil, fmt.Errorf("safetensors: no tensor for name %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("safetensors: duplicate name %q", name)
		}
		if tagOf(t.DType()) == "" {
			return nil, fmt.Errorf("safetensors: tensor %q: dtype %s has no header tag", name, t.DType())
		}
		seen[name] = true
	}
	return &Container{
		names:   append([]string(nil), names...),
		tensors: tensors,
	}, nil
}

// Names returns the tensor names in declaration order.
func (c *Container) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of tensors.
func (c *Container) Len() int {
	return len(c.names)
}

// Tensor looks up a tensor by exact name.
func (c *Container) Tensor(name string) (*tensor.RawTensor, bool) {
	t, ok := c.tensors[name]
	return t, ok
}

// Metadata returns the optional __metadata__ entry of the header, or
// nil when the header carried none.
func (c *Container) Metadata() map[string]string {
	return c.metadata
}
